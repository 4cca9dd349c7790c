package consumer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"staffly/internal/bootstrap"
	"staffly/internal/events"
	"staffly/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

type sliceReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *sliceReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *sliceReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func TestHandleMessage(t *testing.T) {
	audit := &recordingAudit{}
	msg := kafkago.Message{
		Topic: events.PayrollLifecycleTopic,
		Key:   []byte("PAY0000001"),
		Value: []byte(`{"event_type":"payroll_status_changed","request_id":"req-9","payroll_id":"PAY0000001"}`),
	}

	consumer.HandleMessage(context.Background(), msg, audit, zap.NewNop())

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, events.PayrollStatusChangedType, audit.entries[0].Action)
	assert.Equal(t, "req-9", audit.entries[0].Meta["request_id"])
	assert.Equal(t, "PAY0000001", audit.entries[0].Meta["aggregate_id"])
}

func TestHandleMessage_FallsBackToHeader(t *testing.T) {
	audit := &recordingAudit{}
	msg := kafkago.Message{
		Value:   []byte(`{}`),
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte("employee_deleted")}},
	}

	consumer.HandleMessage(context.Background(), msg, audit, zap.NewNop())

	assert.Equal(t, "employee_deleted", audit.entries[0].Action)
}

func TestHandleMessage_InvalidPayload(t *testing.T) {
	audit := &recordingAudit{}

	consumer.HandleMessage(context.Background(), kafkago.Message{Value: []byte("not json")}, audit, zap.NewNop())

	assert.Empty(t, audit.entries)
}

func TestConsumeLifecycleAudit_CommitsEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &sliceReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			{Value: []byte(`{"event_type":"employee_created"}`)},
			{Value: []byte(`garbage`)},
		},
	}
	audit := &recordingAudit{}

	consumer.ConsumeLifecycleAudit(ctx, reader, audit, zap.NewNop())

	assert.Len(t, reader.committed, 2)
	assert.Len(t, audit.entries, 1)
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
}
