package messaging

import (
	"context"
	"encoding/json"
	"fmt"
)

// Topics the showroom publishes domain events to.
const (
	TopicCars      = "showroom.cars"
	TopicPurchases = "showroom.purchases"
	TopicRoles     = "showroom.roles"
)

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Subscriber defines an interface for subscribing to a message topic.
type Subscriber interface {
	Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error)
}

// Envelope is the wire shape of every published event.
type Envelope struct {
	Type    string `json:"type"`
	Key     string `json:"key"`
	Payload any    `json:"payload"`
}

type eventTyper interface {
	EventType() string
}

// Encode wraps event in an Envelope and marshals it to JSON.
func Encode(key string, event any) ([]byte, error) {
	env := Envelope{Key: key, Payload: event}
	if t, ok := event.(eventTyper); ok {
		env.Type = t.EventType()
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return payload, nil
}
