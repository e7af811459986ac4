package trip

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/scope"
	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=trip_repo.go -destination=mock/trip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Trip) error
	Update(ctx context.Context, t *Trip) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*TripRow, error)
	FindAll(ctx context.Context, filter Filter) ([]TripRow, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Trip, error)
	// PaidPayrollIDs maps each given trip that already sits in a payroll to
	// that payroll's id.
	PaidPayrollIDs(ctx context.Context, tripIDs []int64) (map[int64]int64, error)
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

func (r *repository) Create(ctx context.Context, t *Trip) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Update(ctx context.Context, t *Trip) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Trip{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) withNames(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("trips").
		Select("trips.*, drivers.name AS driver_name, routes.name AS route_name").
		Joins("LEFT JOIN drivers ON drivers.id = trips.driver_id").
		Joins("LEFT JOIN routes ON routes.id = trips.route_id")
}

func (r *repository) FindByID(ctx context.Context, id int64) (*TripRow, error) {
	var row TripRow
	if err := r.withNames(ctx).Where("trips.id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]TripRow, error) {
	q := r.withNames(ctx).Scopes(scope.DateBetween("trips.date", filter.StartDate, filter.EndDate))
	if filter.DriverID != 0 {
		q = q.Where("trips.driver_id = ?", filter.DriverID)
	}
	if filter.Status != "" {
		q = q.Where("trips.status = ?", filter.Status)
	}

	var rows []TripRow
	err := q.Order("trips.date ASC, trips.time ASC, trips.id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) ([]Trip, error) {
	var trips []Trip
	if len(ids) == 0 {
		return trips, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("date ASC, id ASC").Find(&trips).Error
	return trips, err
}

func (r *repository) PaidPayrollIDs(ctx context.Context, tripIDs []int64) (map[int64]int64, error) {
	paid := make(map[int64]int64)
	if len(tripIDs) == 0 {
		return paid, nil
	}

	var rows []struct {
		TripID    int64
		PayrollID int64
	}
	err := r.db.WithContext(ctx).
		Table("payroll_trip_details").
		Select("trip_id, payroll_id").
		Where("trip_id IN ?", tripIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		paid[row.TripID] = row.PayrollID
	}
	return paid, nil
}
