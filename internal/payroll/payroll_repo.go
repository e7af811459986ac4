package payroll

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/route"
	"go-fleetpay/internal/scope"
	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Create stores the payroll with all of its detail rows.
	Create(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id int64) (*Payroll, error)
	FindAll(ctx context.Context, filter Filter) ([]Payroll, int64, error)
	Totals(ctx context.Context) ([]DriverTotal, error)
	PaidTripIndex(ctx context.Context, tripIDs []int64) (PaidTripIndex, error)
	// FindRoutes resolves routes by id, soft-deleted ones included.
	FindRoutes(ctx context.Context, ids []int64) (map[int64]route.Route, error)
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

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, trip_id ASC") }).
		Preload("ExpenseDetails", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, expense_id ASC") }).
		Preload("AdvanceDeductionDetails", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, advance_id ASC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Payroll, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Scopes(scope.Driver(filter.DriverID), scope.DateBetween("emission_date", filter.StartDate, filter.EndDate)).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payrolls []Payroll
	err := q.Scopes(scope.Paginate(filter.Page, filter.PageSize)).
		Order("payroll_number DESC").
		Find(&payrolls).Error
	return payrolls, total, err
}

func (r *repository) Totals(ctx context.Context) ([]DriverTotal, error) {
	var totals []DriverTotal
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Select("driver_id, MAX(driver_name) AS driver_name, COUNT(*) AS payroll_count, COALESCE(SUM(total_net_payment), 0) AS total_net_payment").
		Group("driver_id").
		Order("total_net_payment DESC").
		Scan(&totals).Error
	return totals, err
}

func (r *repository) PaidTripIndex(ctx context.Context, tripIDs []int64) (PaidTripIndex, error) {
	ix := PaidTripIndex{}
	if len(tripIDs) == 0 {
		return ix, nil
	}

	var rows []TripDetail
	err := r.db.WithContext(ctx).
		Select("trip_id", "payroll_id").
		Where("trip_id IN ?", tripIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		ix[row.TripID] = row.PayrollID
	}
	return ix, nil
}

func (r *repository) FindRoutes(ctx context.Context, ids []int64) (map[int64]route.Route, error) {
	out := make(map[int64]route.Route, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var routes []route.Route
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&routes).Error; err != nil {
		return nil, err
	}
	for _, rt := range routes {
		out[rt.ID] = rt
	}
	return out, nil
}
