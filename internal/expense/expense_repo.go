package expense

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/scope"
	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=expense_repo.go -destination=mock/expense_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Expense) error
	FindByID(ctx context.Context, id int64) (*Expense, error)
	FindAll(ctx context.Context, filter Filter) ([]Expense, error)
	Delete(ctx context.Context, id int64) error
	// LockByDriver reads every expense of a driver with FOR UPDATE.
	LockByDriver(ctx context.Context, driverID int64) ([]Expense, error)
	// MarkPaid flags unpaid expenses as paid and reports how many rows changed.
	MarkPaid(ctx context.Context, ids []int64, payrollNumber int64) (int64, error)
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

func (r *repository) Create(ctx context.Context, e *Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Expense, error) {
	var e Expense
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Expense, error) {
	q := r.db.WithContext(ctx).
		Scopes(scope.Driver(filter.DriverID), scope.DateBetween("date", filter.StartDate, filter.EndDate))
	if filter.IsPaid != nil {
		q = q.Where("is_paid = ?", *filter.IsPaid)
	}

	var expenses []Expense
	err := q.Order("date ASC, id ASC").Find(&expenses).Error
	return expenses, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("is_paid = ?", false).Delete(&Expense{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) LockByDriver(ctx context.Context, driverID int64) ([]Expense, error) {
	var expenses []Expense
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("driver_id = ?", driverID).
		Order("date ASC, id ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *repository) MarkPaid(ctx context.Context, ids []int64, payrollNumber int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&Expense{}).
		Where("id IN ? AND is_paid = ?", ids, false).
		Updates(map[string]any{"is_paid": true, "payroll_number": payrollNumber})
	return res.RowsAffected, res.Error
}
