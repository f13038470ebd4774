// Package channel provides an in-process broker built on Watermill's
// GoChannel pub/sub. Used in tests and single-node runs without Kafka.
package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Broker is an in-memory publisher/subscriber.
type Broker struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBroker creates an in-process broker.
func NewBroker(logger watermill.LoggerAdapter) *Broker {
	return &Broker{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, logger),
		logger: logger,
	}
}

// PublishEvent marshals event as JSON and publishes it to topic.
func (b *Broker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("key", key)
	msg.SetContext(ctx)

	return b.pubsub.Publish(topic, msg)
}

// Consume reads messages from topic until the context is cancelled.
func (b *Broker) Consume(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := handler(msg.Context(), msg.Payload); err != nil {
				b.logger.Error("Error handling message", err, watermill.LogFields{"topic": topic})
			}
			msg.Ack()
		}
	}
}

// Close shuts the pub/sub down.
func (b *Broker) Close() error {
	return b.pubsub.Close()
}
