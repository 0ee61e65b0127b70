package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillPublisher adapts any watermill publisher to the Publisher seam.
type WatermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewWatermillPublisher(publisher message.Publisher, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// NewGoChannelPublisher returns the in-process publisher used when no broker
// is configured. Events without subscribers are simply dropped.
func NewGoChannelPublisher(logger *slog.Logger) *WatermillPublisher {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return NewWatermillPublisher(pubsub, logger)
}

// NewKafkaPublisher returns a publisher backed by Kafka brokers.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (*WatermillPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return NewWatermillPublisher(publisher, logger), nil
}

func (p *WatermillPublisher) Publish(ctx context.Context, event SessionEvent) error {
	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.Type)

	if err := p.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Published session event",
		"event_type", event.Type,
		"session_id", event.SessionID)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
