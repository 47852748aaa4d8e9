package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/egannguyen/go-car-showroom/internal/config"
	"github.com/egannguyen/go-car-showroom/internal/messaging"
	"github.com/egannguyen/go-car-showroom/internal/messaging/gochannel"
	"github.com/egannguyen/go-car-showroom/internal/messaging/kafka"
)

type broker interface {
	messaging.Publisher
	messaging.Subscriber
	io.Closer
}

// openBroker builds the configured event broker. It returns nil when event
// publishing is disabled.
func openBroker(cfg config.BrokerConfig, logger *slog.Logger) broker {
	switch cfg.Type {
	case config.BrokerKafka:
		return kafka.NewKafkaBroker(cfg.KafkaBrokers)
	case config.BrokerChannel:
		return gochannel.NewBroker(logger, cfg.Buffer)
	}
	return nil
}

// startActivityLog consumes every showroom topic into the log until ctx ends.
func startActivityLog(ctx context.Context, sub messaging.Subscriber) {
	for _, topic := range []string{messaging.TopicCars, messaging.TopicPurchases, messaging.TopicRoles} {
		go sub.Consume(ctx, topic, "showroom-activity", messaging.LogActivity)
	}
}
