package events

import (
	"context"
	"time"

	"spacehub/pkg/kafka"
	"spacehub/pkg/logger"
)

const (
	BookingCreated       = "booking.created"
	BookingSeriesCreated = "booking.series_created"
	BookingStatusChanged = "booking.status_changed"
	TenantConfigChanged  = "tenant.config_changed"

	SchemaVersion = "1"
)

// Event is the payload written to the bus. Data holds the event-specific body.
type Event struct {
	Type       string    `json:"type"`
	TenantID   string    `json:"tenant_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer MessagePublisher
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer MessagePublisher, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source, log: log}
}

// Publish keys every message by tenant so a tenant's events stay ordered
// within one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(evt.TenantID).
		WithValue(evt).
		WithEventType(evt.Type).
		WithTenant(evt.TenantID).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(CorrelationIDFrom(ctx)).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// PublishAsync publishes on a detached context so a client disconnect cannot
// cancel the write. Failures are logged and otherwise ignored.
func PublishAsync(ctx context.Context, p Publisher, log *logger.Logger, evt Event, timeout time.Duration) {
	correlationID := CorrelationIDFrom(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(WithCorrelationID(context.Background(), correlationID), timeout)
		defer cancel()
		if err := p.Publish(pubCtx, evt); err != nil {
			log.Warn("Failed to publish event",
				"event_type", evt.Type,
				"tenant_id", evt.TenantID,
				"entity_id", evt.EntityID,
				"error", err,
			)
		}
	}()
}

type correlationKey struct{}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
