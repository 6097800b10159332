package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"spacehub/pkg/kafka"
	"spacehub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
	done chan struct{}
}

func (r *recordingProducer) Publish(_ context.Context, msg kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	if r.done != nil {
		close(r.done)
	}
	return r.err
}

func (r *recordingProducer) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewKafkaPublisher(producer, "bookings", logger.Discard())

	ctx := WithCorrelationID(context.Background(), "req-42")
	err := pub.Publish(ctx, Event{
		Type:     BookingCreated,
		TenantID: "tenant-1",
		EntityID: "b-1",
		Data:     map[string]string{"resource_id": "r-1"},
	})
	require.NoError(t, err)
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	assert.Equal(t, "tenant-1", msg.Key)
	assert.Equal(t, BookingCreated, msg.GetEventType())
	assert.Equal(t, "tenant-1", msg.GetTenantID())
	assert.Equal(t, "req-42", msg.GetCorrelationID())
	assert.Equal(t, "bookings", msg.Headers[kafka.HeaderSource])

	var evt Event
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, "b-1", evt.EntityID)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestPublishAsync_SwallowsErrors(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down"), done: make(chan struct{})}
	pub := NewKafkaPublisher(producer, "bookings", logger.Discard())

	PublishAsync(context.Background(), pub, logger.Discard(), Event{Type: BookingCreated, TenantID: "t"}, time.Second)

	select {
	case <-producer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was never published")
	}
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
