package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CarStatus is the availability flag of a car in the showroom.
type CarStatus string

const (
	StatusAvailable CarStatus = "Available"
	StatusSold      CarStatus = "Sold"
)

// Car represents a car listed in the showroom.
type Car struct {
	ID     string    `json:"id"`
	Model  string    `json:"model"`
	Price  string    `json:"price"`
	Status CarStatus `json:"status"`
	Photo  string    `json:"photo,omitempty"` // opaque image reference, usually a data URL
}

// NewCar builds an Available car with a freshly assigned id.
func NewCar(model, price, photo string) Car {
	return Car{
		ID:     uuid.NewString(),
		Model:  model,
		Price:  price,
		Status: StatusAvailable,
		Photo:  photo,
	}
}

// IsAvailable reports whether the car can still be bought.
func (c Car) IsAvailable() bool {
	return c.Status == StatusAvailable
}

// MarkSold moves the car from Available to Sold. There is no way back.
func (c *Car) MarkSold() error {
	if c.Status != StatusAvailable {
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, c.Model, c.Status)
	}
	c.Status = StatusSold
	return nil
}

// PaymentMethod is how a client paid for a car.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentPaypal       PaymentMethod = "Paypal"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

// PaymentMethods lists the accepted methods in form order.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentPaypal, PaymentBankTransfer}

// ParsePaymentMethod validates a method name. An empty name selects the
// first form option.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentCreditCard, nil
	}
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", NewValidationError(fmt.Sprintf("Unknown payment method %q", s))
}

// Purchase is a client purchase record. CarModel is copied from the car at
// purchase time and never follows later edits.
type Purchase struct {
	ID            string        `json:"id"`
	CarID         string        `json:"car_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	CarModel      string        `json:"carModel"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PurchasedAt   time.Time     `json:"purchased_at"`
}

// --- Commands ---

// AddCar is a command to list a new car.
type AddCar struct {
	Model string `json:"model"`
	Price string `json:"price"`
}

// EditCar is a command to change a car's listing.
type EditCar struct {
	CarID string `json:"car_id"`
	Model string `json:"model"`
	Price string `json:"price"`
}

// BuyCar is a command to purchase a car.
type BuyCar struct {
	CarID         string `json:"car_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PaymentMethod string `json:"paymentMethod"`
}
