package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-fleetpay/internal/events"
	payrollerrors "go-fleetpay/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type StatementRenderer interface {
	RenderStatements(ctx context.Context, payrollID int64) (int, error)
}

// ConsumePayrollSettled pre-renders the statement files of every settled
// payroll. Messages that can never succeed are committed and skipped; a
// failed render leaves the message uncommitted for redelivery.
func ConsumePayrollSettled(
	ctx context.Context,
	reader MessageReader,
	renderer StatementRenderer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_settled")
	log.Info("payroll settled consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll settled consumer stopped")
				return
			}
			log.Error("fetch payroll settled message failed", zap.Error(err))
			continue
		}

		var event events.PayrollSettledEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll settled event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EventType != events.PayrollSettledEventType || event.PayrollID <= 0 {
			log.Warn("skipping unexpected payroll event",
				zap.String("event_type", event.EventType),
				zap.Int64("payroll_id", event.PayrollID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		written, err := renderer.RenderStatements(ctx, event.PayrollID)
		if err != nil {
			if errors.Is(err, payrollerrors.ErrPayrollNotFound) {
				log.Warn("payroll of settled event not found, skipping", zap.Int64("payroll_id", event.PayrollID))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("render payroll statements failed",
				zap.Int64("payroll_id", event.PayrollID),
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll settled message failed", zap.Error(err))
			continue
		}

		log.Info("payroll statements rendered",
			zap.Int64("payroll_id", event.PayrollID),
			zap.Int64("payroll_number", event.PayrollNumber),
			zap.Int("written", written),
		)
	}
}
