package report

import (
	"context"

	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	// Drivers lists drivers that are not deleted, optionally just one.
	Drivers(ctx context.Context, driverID int64) ([]driver.Driver, error)
	TripLines(ctx context.Context, filter LineFilter) ([]TripLine, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Drivers(ctx context.Context, driverID int64) ([]driver.Driver, error) {
	var drivers []driver.Driver
	q := r.db.WithContext(ctx).Model(&driver.Driver{})
	if driverID != 0 {
		q = q.Where("id = ?", driverID)
	}
	if err := q.Order("name ASC, id ASC").Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

// TripLines joins routes and drivers without the soft-delete filter so
// historical trips keep their names.
func (r *repository) TripLines(ctx context.Context, filter LineFilter) ([]TripLine, error) {
	q := r.db.WithContext(ctx).
		Table("trips").
		Select(`trips.id AS trip_id, trips.driver_id, drivers.name AS driver_name,
			trips.route_id, routes.name AS route_name, routes.driver_pay, routes.alessi_cost,
			trips.date, trips.time, trips.trips, trips.load_number,
			payroll_trip_details.payroll_id AS paid_payroll_id`).
		Joins("LEFT JOIN drivers ON drivers.id = trips.driver_id").
		Joins("LEFT JOIN routes ON routes.id = trips.route_id").
		Joins("LEFT JOIN payroll_trip_details ON payroll_trip_details.trip_id = trips.id").
		Scopes(scope.DateBetween("trips.date", filter.StartDate, filter.EndDate))
	if filter.DriverID != 0 {
		q = q.Where("trips.driver_id = ?", filter.DriverID)
	}

	var lines []TripLine
	if err := q.Order("trips.date ASC, trips.time ASC, trips.id ASC").Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
