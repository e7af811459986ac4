package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// OutboxStatusDead rows ran out of attempts and are never listed again.
	OutboxStatusDead = "dead"
)

const (
	MaxPublishAttempts = 10
	baseRetryDelay     = 5 * time.Second
	maxRetryDelay      = 10 * time.Minute
	maxErrorLength     = 500
)

// OutboxEvent is a domain event waiting to be published. It is written in
// the same transaction as the change that raised it.
type OutboxEvent struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	RequestID     string     `gorm:"type:varchar(64)"`
	AggregateType string     `gorm:"type:varchar(50);not null"`
	AggregateID   string     `gorm:"type:varchar(64);not null"`
	EventType     string     `gorm:"type:varchar(100);not null"`
	Topic         string     `gorm:"type:varchar(150);not null"`
	Payload       []byte     `gorm:"type:jsonb;not null"`
	Status        string     `gorm:"type:varchar(20);not null;index:idx_outbox_due,priority:1"`
	RetryCount    int        `gorm:"not null;default:0"`
	LastError     *string    `gorm:"type:varchar(500)"`
	NextRetryAt   *time.Time `gorm:"index:idx_outbox_due,priority:2"`
	PublishedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	// ListPending returns due pending or failed events, oldest first.
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed records a publish error and schedules the next attempt, or
	// moves the event to dead once MaxPublishAttempts is reached.
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db, now: time.Now}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: connection.BindTx(r.db, tx), now: r.now}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var events []OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Where("next_retry_at IS NULL OR next_retry_at <= ?", r.now()).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusSent,
			"published_at":  r.now(),
			"last_error":    nil,
			"next_retry_at": nil,
		}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	var event OutboxEvent
	if err := r.db.WithContext(ctx).Select("id", "retry_count").First(&event, "id = ?", id).Error; err != nil {
		return err
	}

	status, next := NextAttempt(event.RetryCount+1, r.now())
	if len(reason) > maxErrorLength {
		reason = reason[:maxErrorLength]
	}

	return r.db.WithContext(ctx).
		Model(&OutboxEvent{}).
		Where("id = ? AND status <> ?", id, OutboxStatusDead).
		Updates(map[string]any{
			"status":        status,
			"retry_count":   event.RetryCount + 1,
			"last_error":    reason,
			"next_retry_at": next,
		}).Error
}

// NextAttempt decides what happens after the given number of failed
// attempts. Delays double from baseRetryDelay up to maxRetryDelay; the
// returned time is nil once the event is dead.
func NextAttempt(attempts int, now time.Time) (string, *time.Time) {
	if attempts >= MaxPublishAttempts {
		return OutboxStatusDead, nil
	}
	delay := baseRetryDelay
	for i := 1; i < attempts && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	next := now.Add(delay)
	return OutboxStatusFailed, &next
}

func ValidateOutboxEvent(event OutboxEvent) error {
	switch {
	case event.ID == "":
		return errors.New("outbox event id is empty")
	case event.Topic == "":
		return errors.New("outbox event topic is empty")
	case len(event.Payload) == 0:
		return errors.New("outbox event payload is empty")
	}
	if event.Status != OutboxStatusPending {
		return fmt.Errorf("new outbox events must be %s, got %q", OutboxStatusPending, event.Status)
	}
	return nil
}
