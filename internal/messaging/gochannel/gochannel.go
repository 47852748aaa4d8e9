// Package gochannel is the in-process broker: a watermill Go-channel pub/sub
// behind the messaging interfaces.
package gochannel

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/egannguyen/go-car-showroom/internal/messaging"
)

const keyMetadata = "key"

// Broker publishes and consumes events inside the current process.
type Broker struct {
	pubSub *gochannel.GoChannel
}

var (
	_ messaging.Publisher  = (*Broker)(nil)
	_ messaging.Subscriber = (*Broker)(nil)
)

// NewBroker creates an in-process broker logging through logger.
func NewBroker(logger *slog.Logger, buffer int64) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: buffer},
			watermill.NewSlogLogger(logger),
		),
	}
}

func (b *Broker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := messaging.Encode(key, event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(keyMetadata, key)
	msg.SetContext(ctx)
	return b.pubSub.Publish(topic, msg)
}

// Consume subscribes to topic and calls handler for every message until ctx
// is cancelled. Go channels have no consumer groups, so groupID is only used
// for logging.
func (b *Broker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		slog.Error("Failed to subscribe", "topic", topic, "group", groupID, "err", err)
		return
	}
	b.drain(ctx, topic, messages, handler)
}

func (b *Broker) drain(ctx context.Context, topic string, messages <-chan *message.Message, handler func(ctx context.Context, payload []byte) error) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Consumer shutting down", "topic", topic)
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := handler(ctx, msg.Payload); err != nil {
				slog.Error("Error handling message", "topic", topic, "err", err)
			}
			msg.Ack()
		}
	}
}

func (b *Broker) Close() error {
	return b.pubSub.Close()
}
