package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-fleetpay/internal/events"
	"go-fleetpay/internal/messaging/kafka/consumer"
	payrollerrors "go-fleetpay/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader hands out queued messages, then cancels the consumer.
type fakeReader struct {
	queue     []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.queue) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

type fakeRenderer struct {
	calls []int64
	errs  map[int64]error
}

func (f *fakeRenderer) RenderStatements(ctx context.Context, payrollID int64) (int, error) {
	f.calls = append(f.calls, payrollID)
	if err := f.errs[payrollID]; err != nil {
		return 0, err
	}
	return 2, nil
}

func settledMessage(t *testing.T, offset, payrollID int64) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.PayrollSettledEvent{
		EventType:     events.PayrollSettledEventType,
		PayrollID:     payrollID,
		PayrollNumber: payrollID + 100,
	})
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: payload}
}

func TestConsumePayrollSettled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafkago.Message{
		settledMessage(t, 1, 5),
		{Offset: 2, Value: []byte("not json")},
		settledMessage(t, 3, 6),
		settledMessage(t, 4, 7),
	}}
	renderer := &fakeRenderer{errs: map[int64]error{
		6: payrollerrors.ErrPayrollNotFound,
		7: errors.New("disk full"),
	}}

	consumer.ConsumePayrollSettled(ctx, reader, renderer, zap.NewNop())

	assert.Equal(t, []int64{5, 6, 7}, renderer.calls)
	// offset 4 failed transiently and stays uncommitted for redelivery
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}
