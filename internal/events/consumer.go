package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

// ErrMalformedEvent wraps payloads that do not decode into a RecordEvent.
var ErrMalformedEvent = errors.New("malformed record event")

// messageSource is the part of pulsar.Consumer the event consumer drives.
type messageSource interface {
	Receive(ctx context.Context) (pulsar.Message, error)
	Ack(msg pulsar.Message) error
	Nack(msg pulsar.Message)
	Close()
}

// EventConsumer reads record events from a shared Pulsar subscription.
// Messages nacked three times move to the topic's -dlq topic.
type EventConsumer struct {
	client pulsar.Client
	source messageSource
}

// NewEventConsumer initializes the Pulsar client and consumer.
func NewEventConsumer(pulsarURL, topic, subscription string) (*EventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   3,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar consumer: %w", err)
	}

	return &EventConsumer{client: client, source: consumer}, nil
}

// ReceiveEvent blocks until the next record event arrives. A decoded event is
// acked before it is returned. A payload that does not decode is nacked and
// reported with an error wrapping ErrMalformedEvent, so the caller can keep
// reading.
func (c *EventConsumer) ReceiveEvent(ctx context.Context) (models.RecordEvent, error) {
	msg, err := c.source.Receive(ctx)
	if err != nil {
		return models.RecordEvent{}, fmt.Errorf("failed to receive message: %w", err)
	}

	event, err := DecodeRecordEvent(msg.Payload())
	if err != nil {
		c.source.Nack(msg)
		return models.RecordEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if err := c.source.Ack(msg); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event_id", event.ID.String()).Msg("Failed to ack record event")
	}
	return event, nil
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.source.Close()
	if c.client != nil {
		c.client.Close()
	}
}

// DecodeRecordEvent unmarshals a message payload into a RecordEvent.
func DecodeRecordEvent(payload []byte) (models.RecordEvent, error) {
	var event models.RecordEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("could not decode record event: %w", err)
	}
	if event.Action == "" {
		return event, fmt.Errorf("record event %s has no action", event.ID)
	}
	return event, nil
}
