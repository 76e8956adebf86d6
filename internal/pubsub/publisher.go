package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub/internal/config"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// Event types published on the events topic.
const (
	EventCourseCreated     = "course.created"
	EventEnrollmentCreated = "enrollment.created"
)

// Event is the envelope of every domain event.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// EventPublisher sends domain events to a single topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, data any) error
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: attributesFor(payload),
	})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// attributesFor copies the event type into a message attribute so
// subscriptions can filter on it.
func attributesFor(payload []byte) map[string]string {
	var head struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(payload, &head) != nil || head.Type == "" {
		return nil
	}
	return map[string]string{"type": head.Type}
}

type topicEvents struct {
	publisher Publisher
	topic     string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventPublisher wraps publisher so every event goes to topic.
func NewEventPublisher(publisher Publisher, topic string, logger zerolog.Logger) EventPublisher {
	return &topicEvents{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "EventPublisher").Str("topic", topic).Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (e *topicEvents) PublishEvent(ctx context.Context, eventType string, data any) error {
	payload, err := json.Marshal(Event{Type: eventType, OccurredAt: e.now(), Data: data})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", eventType, err)
	}
	id, err := e.publisher.Publish(ctx, e.topic, payload)
	if err != nil {
		e.logger.Error().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
		return err
	}
	e.logger.Debug().Str("event_type", eventType).Str("message_id", id).Msg("Event published")
	return nil
}

type noopEvents struct{}

// NoopEventPublisher drops every event. Used when no topic is configured.
func NoopEventPublisher() EventPublisher {
	return noopEvents{}
}

func (noopEvents) PublishEvent(context.Context, string, any) error { return nil }
