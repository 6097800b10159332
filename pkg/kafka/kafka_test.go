package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spacehub/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	messages  []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("tenant-1").
		WithValue(map[string]string{"booking_id": "b-1"}).
		WithEventType("booking.created").
		WithTenant("tenant-1").
		Build()
	require.NoError(t, err)

	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "booking.created", msg.GetEventType())
	assert.Equal(t, "tenant-1", msg.GetTenantID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])

	var payload map[string]string
	require.NoError(t, msg.DecodeValue(&payload))
	assert.Equal(t, "b-1", payload["booking_id"])
}

func TestMessageBuilder_UnencodableValue(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypeTransient, ClassifyError(errors.New("dial tcp: i/o timeout")))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(errors.New("Connection Refused")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(errors.New("unexpected field")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(NewPermanentError("bad", nil)))
	assert.False(t, ShouldRetry(NewTransientError("x", nil), 3, 3))
	assert.True(t, ShouldRetry(NewTransientError("x", nil), 0, 3))
}

func TestProducer_PublishValidatesAndWrites(t *testing.T) {
	writer := &fakeWriter{}
	p := NewProducerWithWriters("bookings", writer, nil, logger.Discard())

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("{}")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	msg, err := NewMessage().WithKey("tenant-1").WithValue("hi").WithEventType("booking.created").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "tenant-1", string(writer.messages[0].Key))
	assert.Equal(t, "booking.created", headerValue(writer.messages[0], HeaderEventType))

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), msg), ErrProducerClosed)
}

func TestProducer_FailedPublishGoesToDLQ(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	dlq := &fakeWriter{}
	p := NewProducerWithWriters("bookings", writer, dlq, logger.Discard())

	msg, err := NewMessage().WithKey("tenant-1").WithValue("x").Build()
	require.NoError(t, err)

	err = p.Publish(context.Background(), msg)
	require.Error(t, err)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "bookings", headerValue(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "broker down", headerValue(dlq.messages[0], HeaderDLQError))
	assert.Empty(t, msg.Headers[HeaderDLQError], "caller's message must not be mutated")
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := NewProducerWithWriters("bookings", &fakeWriter{}, nil, logger.Discard())

	var order []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}

	msg, _ := NewMessage().WithKey("k").WithValue(1).Build()
	require.NoError(t, p.Publish(context.Background(), msg))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		messages: []kafka.Message{{Key: []byte("t-1"), Value: []byte(`{}`), Offset: 7}},
		cancel:   cancel,
	}

	attempts := 0
	handler := func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("mongo timeout", nil)
		}
		return nil
	}

	dlq := &fakeWriter{}
	c := NewConsumerWithReader(reader, dlq, "tenants", "group", handler, logger.Discard())

	err := c.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, attempts)
	assert.Empty(t, dlq.messages)
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestConsumer_PermanentFailureGoesToDLQAndCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		messages: []kafka.Message{{Key: []byte("t-1"), Value: []byte(`not-json`), Offset: 3}},
		cancel:   cancel,
	}

	attempts := 0
	handler := func(ctx context.Context, msg Message) error {
		attempts++
		var v map[string]any
		return msg.DecodeValue(&v)
	}

	dlq := &fakeWriter{}
	c := NewConsumerWithReader(reader, dlq, "tenants", "group", handler, logger.Discard())

	_ = c.Start(ctx)
	assert.Equal(t, 1, attempts, "permanent errors are not retried")
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "tenants", headerValue(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "group", headerValue(dlq.messages[0], HeaderDLQGroup))
	assert.Equal(t, []int64{3}, reader.committed)
	require.NoError(t, c.Close())
}
