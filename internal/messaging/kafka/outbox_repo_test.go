package kafka_test

import (
	"testing"
	"time"

	"go-fleetpay/internal/messaging/kafka"

	"github.com/stretchr/testify/assert"
)

func TestNextAttempt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		attempts  int
		wantState string
		wantDelay time.Duration
	}{
		{name: "first failure", attempts: 1, wantState: kafka.OutboxStatusFailed, wantDelay: 5 * time.Second},
		{name: "doubles", attempts: 3, wantState: kafka.OutboxStatusFailed, wantDelay: 20 * time.Second},
		{name: "capped", attempts: 9, wantState: kafka.OutboxStatusFailed, wantDelay: 10 * time.Minute},
		{name: "out of attempts", attempts: kafka.MaxPublishAttempts, wantState: kafka.OutboxStatusDead},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state, next := kafka.NextAttempt(tc.attempts, now)

			assert.Equal(t, tc.wantState, state)
			if tc.wantState == kafka.OutboxStatusDead {
				assert.Nil(t, next)
				return
			}
			if assert.NotNil(t, next) {
				assert.Equal(t, tc.wantDelay, next.Sub(now))
			}
		})
	}
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      "0b6f3c1e-1f5a-4f0e-9d55-3b8f0f0c2a11",
		Topic:   "fleet.payroll.settled.v1",
		Payload: []byte(`{"payroll_id":1}`),
		Status:  kafka.OutboxStatusPending,
	}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	noTopic := valid
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	noPayload := valid
	noPayload.Payload = nil
	assert.Error(t, kafka.ValidateOutboxEvent(noPayload))

	alreadySent := valid
	alreadySent.Status = kafka.OutboxStatusSent
	assert.Error(t, kafka.ValidateOutboxEvent(alreadySent))
}
