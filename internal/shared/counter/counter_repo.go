package counter

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

const PayrollNumber = "payroll_number"

// SequenceCounter backs gap-free business sequences such as payroll numbers.
type SequenceCounter struct {
	CounterType string `gorm:"type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   int64  `gorm:"autoUpdateTime"`
}

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	var next int64

	// the row lock taken by the upsert serialises concurrent callers until
	// the surrounding transaction ends, so a rolled back caller leaves no gap
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (counter_type, last_value, updated_at)
		VALUES (?, 1, extract(epoch from now())::bigint)
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = sequence_counters.last_value + 1,
			updated_at = extract(epoch from now())::bigint
		RETURNING last_value
	`, counterType).Scan(&next).Error
	if err != nil {
		return 0, err
	}

	return next, nil
}
