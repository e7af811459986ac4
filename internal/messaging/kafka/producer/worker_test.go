package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/messaging/kafka/mock"
	"go-fleetpay/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failTopic string
	written   []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if m.Topic == w.failTopic {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{failTopic: "broken.topic"}

	repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
		{ID: "a", AggregateType: "payroll", AggregateID: "12", EventType: "payroll_settled", Topic: "fleet.payroll.settled.v1", Payload: []byte(`{}`), RequestID: "rid-1"},
		{ID: "b", AggregateType: "payroll", AggregateID: "13", EventType: "payroll_settled", Topic: "broken.topic", Payload: []byte(`{}`)},
	}, nil)
	repo.EXPECT().MarkSent(ctx, "a").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "b", "broker unavailable").Return(nil)

	err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

	assert.NoError(t, err)
	if assert.Len(t, writer.written, 1) {
		msg := writer.written[0]
		assert.Equal(t, "12", string(msg.Key))
		assert.Equal(t, "event_type", msg.Headers[0].Key)
		assert.Equal(t, "payroll_settled", string(msg.Headers[0].Value))
		assert.Equal(t, "aggregate_type", msg.Headers[1].Key)
		assert.Equal(t, "request_id", msg.Headers[2].Key)
	}
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), 50).Return(nil, errors.New("db down"))

	err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())

	assert.EqualError(t, err, "db down")
}
