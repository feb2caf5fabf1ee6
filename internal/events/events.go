package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier publishes record lifecycle events.
type Notifier interface {
	Publish(ctx context.Context, event models.RecordEvent) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: producer}, nil
}

// Publish sends a record event to Pulsar.
func (p *EventPublisher) Publish(ctx context.Context, event models.RecordEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:     event.Action,
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().Str("event_id", event.ID.String()).Str("action", event.Action).Msg("Event sent to Pulsar")
	return nil
}

// Close closes the Pulsar producer and client.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// NoopNotifier drops every event. It is used when no Pulsar URL is configured.
type NoopNotifier struct{}

func (NoopNotifier) Publish(context.Context, models.RecordEvent) error { return nil }

func (NoopNotifier) Close() {}

// NewRecordEvent builds an event for the given action and record ids.
func NewRecordEvent(action string, record *models.Record, ids ...string) models.RecordEvent {
	if record != nil && len(ids) == 0 {
		ids = []string{record.ID.Hex()}
	}
	if ids == nil {
		ids = []string{}
	}
	return models.RecordEvent{
		ID:        uuid.New(),
		Action:    action,
		RecordIDs: ids,
		Record:    record,
		Timestamp: time.Now().UTC().UnixMilli(),
	}
}
