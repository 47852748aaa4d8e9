package entity

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrActionNotPermitted    = errors.New("action not permitted for role")
	ErrRoleSelectionRequired = errors.New("role selection required")
	ErrConfirmationRequired  = errors.New("confirmation required")
)

// MsgFillAllFields is shown when a required form field is empty.
const MsgFillAllFields = "Please fill in all fields"

// ValidationError carries a message meant for the user.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfirmationError asks the caller to confirm a destructive action and
// retry.
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return "confirmation required: " + e.Prompt
}

func (e *ConfirmationError) Unwrap() error {
	return ErrConfirmationRequired
}

// UserMessage extracts the message the user should see for err.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		ce *ConfirmationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ce):
		return ce.Prompt
	case errors.Is(err, ErrInvalidTransition):
		return "This car is no longer available"
	case errors.Is(err, ErrActionNotPermitted):
		return "This action is not available in your current role"
	case errors.Is(err, ErrRoleSelectionRequired):
		return "Select your role to continue"
	case errors.Is(err, ErrConfirmationRequired):
		return "Please confirm this action"
	}
	return "Something went wrong"
}
