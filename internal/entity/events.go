package entity

import "time"

// Event represents a domain event.
type Event interface {
	EventType() string
}

// CarAdded is emitted when an admin lists a new car.
type CarAdded struct {
	Car     Car       `json:"car"`
	AddedAt time.Time `json:"added_at"`
}

func (e CarAdded) EventType() string { return "CarAdded" }

// CarUpdated is emitted when an admin edits a car's listing.
type CarUpdated struct {
	Car       Car       `json:"car"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e CarUpdated) EventType() string { return "CarUpdated" }

// CarDeleted is emitted when an admin removes a car.
type CarDeleted struct {
	CarID     string    `json:"car_id"`
	Model     string    `json:"model"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e CarDeleted) EventType() string { return "CarDeleted" }

// CarPurchased is emitted when a client buys a car.
type CarPurchased struct {
	Purchase Purchase `json:"purchase"`
}

func (e CarPurchased) EventType() string { return "CarPurchased" }

// RoleChanged is emitted whenever the active role is set or toggled.
type RoleChanged struct {
	From      Role      `json:"from"`
	To        Role      `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e RoleChanged) EventType() string { return "RoleChanged" }
