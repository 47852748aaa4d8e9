// Package view renders the showroom state into a view-model. Render is pure:
// the same inputs always give the same Model, and it never mutates them.
package view

import (
	"github.com/egannguyen/go-car-showroom/internal/entity"
)

// PlaceholderPhoto is shown for cars without a photo.
const PlaceholderPhoto = "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?w=400&h=300&fit=crop"

// EmptyPurchasesMessage is shown on the clients tab before the first sale.
const EmptyPurchasesMessage = "No purchases yet."

// Action is a user affordance exposed by a render.
type Action string

const (
	ActionAddCar    Action = "add_car"
	ActionEditCar   Action = "edit_car"
	ActionDeleteCar Action = "delete_car"
	ActionBuyCar    Action = "buy_car"
)

// Level classifies a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notice is a one-shot message for the user, shown after an operation.
type Notice struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Level Level  `json:"level"`
}

// Card is one car as displayed on the cars tab.
type Card struct {
	ID         string           `json:"id"`
	Model      string           `json:"model"`
	Price      string           `json:"price"`
	PriceLabel string           `json:"price_label"`
	Status     entity.CarStatus `json:"status"`
	Photo      string           `json:"photo"`
	Actions    []Action         `json:"actions"`
}

// RolePrompt is the blocking role choice shown on first run.
type RolePrompt struct {
	Title   string        `json:"title"`
	Choices []entity.Role `json:"choices"`
}

// Model is everything a client needs to draw the current screen.
type Model struct {
	Tab             entity.Tab        `json:"tab"`
	Role            entity.Role       `json:"role"`
	RoleButtonLabel string            `json:"role_button_label"`
	Actions         []Action          `json:"actions"`
	Cards           []Card            `json:"cards,omitempty"`
	Purchases       []entity.Purchase `json:"purchases,omitempty"`
	EmptyMessage    string            `json:"empty_message,omitempty"`
	RolePrompt      *RolePrompt       `json:"role_prompt,omitempty"`
	Notice          *Notice           `json:"notice,omitempty"`
}

// State is the input to Render.
type State struct {
	Tab       entity.Tab
	Role      entity.Role
	Blocked   bool
	Cars      []entity.Car
	Purchases []entity.Purchase
}

// Render builds the view-model for the active tab.
func Render(s State) Model {
	m := Model{
		Tab:             s.Tab,
		Role:            s.Role,
		RoleButtonLabel: RoleButtonLabel(s.Role),
		Actions:         []Action{},
	}
	if s.Blocked {
		m.RolePrompt = &RolePrompt{
			Title:   "Select Your Role",
			Choices: []entity.Role{entity.RoleClient, entity.RoleAdmin},
		}
	}

	switch s.Tab {
	case entity.TabCars:
		if s.Role == entity.RoleAdmin {
			m.Actions = append(m.Actions, ActionAddCar)
		}
		m.Cards = make([]Card, 0, len(s.Cars))
		for _, c := range s.Cars {
			m.Cards = append(m.Cards, renderCard(c, s.Role))
		}
	case entity.TabClients:
		m.Purchases = make([]entity.Purchase, len(s.Purchases))
		copy(m.Purchases, s.Purchases)
		if len(m.Purchases) == 0 {
			m.EmptyMessage = EmptyPurchasesMessage
		}
	}
	return m
}

// CarActions returns the per-car actions role may use on car.
func CarActions(c entity.Car, role entity.Role) []Action {
	actions := []Action{}
	switch role {
	case entity.RoleAdmin:
		actions = append(actions, ActionEditCar, ActionDeleteCar)
	case entity.RoleClient:
		if c.IsAvailable() {
			actions = append(actions, ActionBuyCar)
		}
	}
	return actions
}

// RoleButtonLabel names the role the toggle switches to.
func RoleButtonLabel(r entity.Role) string {
	if r == entity.RoleAdmin {
		return "Switch to Client"
	}
	return "Switch to Admin"
}

func renderCard(c entity.Car, role entity.Role) Card {
	photo := c.Photo
	if photo == "" {
		photo = PlaceholderPhoto
	}
	return Card{
		ID:         c.ID,
		Model:      c.Model,
		Price:      c.Price,
		PriceLabel: "₱" + c.Price,
		Status:     c.Status,
		Photo:      photo,
		Actions:    CarActions(c, role),
	}
}
