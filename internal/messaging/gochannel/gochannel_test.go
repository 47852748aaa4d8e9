package gochannel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/messaging"
)

func TestPublishAndDrain(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	broker := NewBroker(nil, 8)
	t.Cleanup(func() { _ = broker.Close() })

	messages, err := broker.pubSub.Subscribe(ctx, messaging.TopicCars)
	require.NoError(t, err)

	received := make(chan []byte, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		broker.drain(ctx, messaging.TopicCars, messages, func(_ context.Context, payload []byte) error {
			received <- payload
			cancel()
			return nil
		})
	}()

	event := entity.CarDeleted{CarID: "car-1", Model: "Civic"}
	require.NoError(t, broker.PublishEvent(ctx, messaging.TopicCars, "car-1", event))

	select {
	case payload := <-received:
		var env struct {
			Type string `json:"type"`
			Key  string `json:"key"`
		}
		require.NoError(t, json.Unmarshal(payload, &env))
		assert.Equal(t, event.EventType(), env.Type)
		assert.Equal(t, "car-1", env.Key)
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
	<-done
}

func TestConsumeStopsOnCancel(t *testing.T) {
	broker := NewBroker(nil, 1)
	t.Cleanup(func() { _ = broker.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		broker.Consume(ctx, messaging.TopicRoles, "test", messaging.LogActivity)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
