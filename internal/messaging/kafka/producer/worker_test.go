package producer_test

import (
	"context"
	"errors"
	"testing"

	"staffly/internal/messaging/kafka"
	"staffly/internal/messaging/kafka/mock"
	"staffly/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failFor map[string]bool
	written []kafkago.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if w.failFor[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{failFor: map[string]bool{"PAY0000002": true}}
	ctx := context.Background()

	pending := []kafka.OutboxEvent{
		{ID: "e1", AggregateType: "payroll", AggregateID: "PAY0000001", EventType: "payroll.deleted", Topic: "t", Payload: []byte(`{}`), RequestID: "req-1"},
		{ID: "e2", AggregateType: "payroll", AggregateID: "PAY0000002", EventType: "payroll.deleted", Topic: "t", Payload: []byte(`{}`)},
	}

	repo.EXPECT().ListPending(ctx, 50).Return(pending, nil)
	repo.EXPECT().MarkSent(ctx, "e1").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "e2", "broker unavailable").Return(nil)

	sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, writer.written, 1)

	msg := writer.written[0]
	assert.Equal(t, "t", msg.Topic)
	assert.Equal(t, []byte("PAY0000001"), msg.Key)
	assert.Len(t, msg.Headers, 3)
	assert.Equal(t, "request_id", msg.Headers[2].Key)
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().ListPending(ctx, 50).Return(nil, nil)

	sent, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())

	assert.NoError(t, err)
	assert.Zero(t, sent)
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().ListPending(ctx, 50).Return(nil, errors.New("db down"))

	_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())
	assert.Error(t, err)
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		producer.ProcessOutboxEvents(ctx, repo, &fakeWriter{}, zap.NewNop(), 0)
		close(done)
	}()

	cancel()
	<-done
}
