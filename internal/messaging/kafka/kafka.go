// Package kafka provides a Kafka-backed broker built on Watermill.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

const partitionKeyMetadata = "partition_key"

// Broker is a Watermill Kafka publisher/subscriber pair.
type Broker struct {
	publisher  message.Publisher
	brokers    []string
	group      string
	logger     watermill.LoggerAdapter
	saramaConf *sarama.Config
}

// NewBroker dials Kafka and returns a Broker. Messages carrying the
// same key land on the same partition, which preserves per-user
// ordering downstream.
func NewBroker(brokers []string, consumerGroup string, logger watermill.LoggerAdapter) (*Broker, error) {
	marshaler := kafka.NewWithPartitioningMarshaler(func(topic string, msg *message.Message) (string, error) {
		return msg.Metadata.Get(partitionKeyMetadata), nil
	})

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:               brokers,
		Marshaler:             marshaler,
		OverwriteSaramaConfig: kafka.DefaultSaramaSyncPublisherConfig(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &Broker{
		publisher:  publisher,
		brokers:    brokers,
		group:      consumerGroup,
		logger:     logger,
		saramaConf: kafka.DefaultSaramaSubscriberConfig(),
	}, nil
}

// PublishEvent marshals event as JSON and publishes it to topic, keyed
// for partitioning.
func (b *Broker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(partitionKeyMetadata, key)
	msg.SetContext(ctx)

	return b.publisher.Publish(topic, msg)
}

// Consume reads messages from topic until the context is cancelled.
func (b *Broker) Consume(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               b.brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		ConsumerGroup:         b.group,
		OverwriteSaramaConfig: b.saramaConf,
	}, b.logger)
	if err != nil {
		return fmt.Errorf("failed to create kafka subscriber: %w", err)
	}
	defer subscriber.Close()

	messages, err := subscriber.Subscribe(ctx, topic)
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

// Close releases the underlying publisher connection.
func (b *Broker) Close() error {
	return b.publisher.Close()
}
