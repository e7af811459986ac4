package advance

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/scope"
	"go-fleetpay/internal/shared/connection"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=advance_repo.go -destination=mock/advance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Advance) error
	FindByID(ctx context.Context, id int64) (*Advance, error)
	FindAll(ctx context.Context, filter Filter) ([]Advance, error)
	Delete(ctx context.Context, id int64) error
	// LockByDriver reads every advance of a driver with FOR UPDATE.
	LockByDriver(ctx context.Context, driverID int64) ([]Advance, error)
	// ApplyDeduction moves amount from remaining to paid, refusing to overdraw.
	ApplyDeduction(ctx context.Context, id int64, amount decimal.Decimal) error
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

func (r *repository) Create(ctx context.Context, a *Advance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Advance, error) {
	var a Advance
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Advance, error) {
	q := r.db.WithContext(ctx).
		Scopes(scope.Driver(filter.DriverID), scope.DateBetween("date", filter.StartDate, filter.EndDate))
	if filter.OutstandingOnly {
		q = q.Where("remaining_amount > 0")
	}

	var advances []Advance
	err := q.Order("date ASC, id ASC").Find(&advances).Error
	return advances, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("paid_amount = 0").Delete(&Advance{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) LockByDriver(ctx context.Context, driverID int64) ([]Advance, error) {
	var advances []Advance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("driver_id = ?", driverID).
		Order("date ASC, id ASC").
		Find(&advances).Error
	return advances, err
}

func (r *repository) ApplyDeduction(ctx context.Context, id int64, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&Advance{}).
		Where("id = ? AND remaining_amount >= ?", id, amount).
		Updates(map[string]any{
			"paid_amount":      gorm.Expr("paid_amount + ?", amount),
			"remaining_amount": gorm.Expr("remaining_amount - ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
