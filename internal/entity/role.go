package entity

import "fmt"

// Role gates which showroom actions are exposed.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// DefaultRole is used until a role has been chosen.
const DefaultRole = RoleClient

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleClient:
		return Role(s), nil
	}
	return "", NewValidationError(fmt.Sprintf("Unknown role %q", s))
}

// Toggle returns the opposite role.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleClient
	}
	return RoleAdmin
}

// Tab is one of the two showroom views.
type Tab string

const (
	TabCars    Tab = "cars"
	TabClients Tab = "clients"
)

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabCars, TabClients:
		return Tab(s), nil
	}
	return "", NewValidationError(fmt.Sprintf("Unknown tab %q", s))
}

// Preference is the persisted role choice. RoleSet records that a role was
// explicitly chosen at least once.
type Preference struct {
	Role    Role `json:"role"`
	RoleSet bool `json:"roleSet"`
}

// Normalize replaces an unknown role with the default.
func (p Preference) Normalize() Preference {
	if _, err := ParseRole(string(p.Role)); err != nil {
		p.Role = DefaultRole
	}
	return p
}
