package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/shared/request"
	triperrors "go-fleetpay/internal/trip/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=trip_service.go -destination=mock/trip_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateTripRequest) (TripResponse, error)
	GetAll(ctx context.Context, filter GetTripsFilterRequest) ([]TripResponse, error)
	// GetByID hides trips of other drivers when ownDriverID is set.
	GetByID(ctx context.Context, id, ownDriverID int64) (TripResponse, error)
	Update(ctx context.Context, id int64, req UpdateTripRequest) (TripResponse, error)
	Delete(ctx context.Context, id int64) error
	ToggleStatus(ctx context.Context, id int64) (TripResponse, error)
	Calendar(ctx context.Context, month string, driverID int64) ([]CalendarDay, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	drivers driver.Repository
	routes  route.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, drivers driver.Repository, routes route.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("trip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("trip.service")
	}
	return &service{db: db, repo: repo, drivers: drivers, routes: routes, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateTripRequest) (TripResponse, error) {
	date, err := request.ParseDate(req.Date)
	if err != nil {
		return TripResponse{}, err
	}
	if req.Trips == 0 {
		req.Trips = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create trip begin tx failed", zap.Error(err))
		return TripResponse{}, err
	}
	defer tx.Rollback()

	d, err := s.checkReferences(ctx, tx, req.DriverID, req.RouteID)
	if err != nil {
		return TripResponse{}, err
	}
	if d.Status != driver.StatusActive {
		return TripResponse{}, triperrors.ErrInactiveDriver
	}

	t := &Trip{
		DriverID:   req.DriverID,
		RouteID:    req.RouteID,
		Date:       date,
		Time:       req.Time,
		Trips:      req.Trips,
		LoadNumber: req.LoadNumber,
		Status:     StatusAssigned,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, t); err != nil {
		s.logger.Error("create trip persist failed", zap.Error(err))
		return TripResponse{}, err
	}

	row, err := qtx.FindByID(ctx, t.ID)
	if err != nil {
		return TripResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create trip commit failed", zap.Error(err))
		return TripResponse{}, err
	}

	s.logger.Info("trip scheduled",
		zap.Int64("trip_id", t.ID),
		zap.Int64("driver_id", t.DriverID),
		zap.String("date", req.Date),
	)
	return ToResponse(*row, 0), nil
}

func (s *service) GetAll(ctx context.Context, filter GetTripsFilterRequest) ([]TripResponse, error) {
	start, end, err := request.ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && filter.Status != StatusAssigned && filter.Status != StatusCompleted {
		return nil, triperrors.ErrInvalidStatus
	}

	rows, err := s.repo.FindAll(ctx, Filter{
		DriverID:  filter.DriverID,
		StartDate: start,
		EndDate:   end,
		Status:    filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return s.withPaidStatus(ctx, rows)
}

func (s *service) GetByID(ctx context.Context, id, ownDriverID int64) (TripResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TripResponse{}, mapRepositoryError(err)
	}
	if ownDriverID != 0 && row.DriverID != ownDriverID {
		return TripResponse{}, triperrors.ErrTripNotFound
	}

	resp, err := s.withPaidStatus(ctx, []TripRow{*row})
	if err != nil {
		return TripResponse{}, err
	}
	return resp[0], nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateTripRequest) (TripResponse, error) {
	date, err := request.ParseDate(req.Date)
	if err != nil {
		return TripResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TripResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TripResponse{}, mapRepositoryError(err)
	}
	if err := s.ensureUnpaid(ctx, qtx, id); err != nil {
		return TripResponse{}, err
	}
	if _, err := s.checkReferences(ctx, tx, req.DriverID, req.RouteID); err != nil {
		return TripResponse{}, err
	}

	t := row.Trip
	t.DriverID = req.DriverID
	t.RouteID = req.RouteID
	t.Date = date
	t.Time = req.Time
	t.Trips = req.Trips
	t.LoadNumber = req.LoadNumber

	if err := qtx.Update(ctx, &t); err != nil {
		s.logger.Error("update trip persist failed", zap.Int64("trip_id", id), zap.Error(err))
		return TripResponse{}, err
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TripResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TripResponse{}, err
	}
	return ToResponse(*updated, 0), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := s.ensureUnpaid(ctx, qtx, id); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("trip deleted", zap.Int64("trip_id", id))
	return nil
}

// ToggleStatus flips assigned and completed. Paid trips may still be toggled.
func (s *service) ToggleStatus(ctx context.Context, id int64) (TripResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TripResponse{}, mapRepositoryError(err)
	}

	t := row.Trip
	if t.Status == StatusCompleted {
		t.Status = StatusAssigned
	} else {
		t.Status = StatusCompleted
	}

	if err := s.repo.Update(ctx, &t); err != nil {
		s.logger.Error("toggle trip status failed", zap.Int64("trip_id", id), zap.Error(err))
		return TripResponse{}, err
	}

	row.Trip = t
	resp, err := s.withPaidStatus(ctx, []TripRow{*row})
	if err != nil {
		return TripResponse{}, err
	}
	return resp[0], nil
}

// Calendar returns every day of month with the trips scheduled on it.
// TripCount sums the trips field, so one entry can count several runs.
func (s *service) Calendar(ctx context.Context, month string, driverID int64) ([]CalendarDay, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, triperrors.ErrInvalidMonth
	}
	last := first.AddDate(0, 1, -1)

	rows, err := s.repo.FindAll(ctx, Filter{DriverID: driverID, StartDate: &first, EndDate: &last})
	if err != nil {
		return nil, err
	}

	entries, err := s.withPaidStatus(ctx, rows)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]TripResponse)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	days := make([]CalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(request.DateLayout)
		day := CalendarDay{Date: key, Entries: byDate[key]}
		if day.Entries == nil {
			day.Entries = []TripResponse{}
		}
		for _, e := range day.Entries {
			day.TripCount += e.Trips
		}
		days = append(days, day)
	}
	return days, nil
}

func (s *service) checkReferences(ctx context.Context, tx *sql.Tx, driverID, routeID int64) (*driver.Driver, error) {
	d, err := s.drivers.WithTx(tx).FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, triperrors.ErrUnknownDriver
		}
		return nil, err
	}
	if _, err := s.routes.WithTx(tx).FindByID(ctx, routeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, triperrors.ErrUnknownRoute
		}
		return nil, err
	}
	return d, nil
}

func (s *service) ensureUnpaid(ctx context.Context, repo Repository, id int64) error {
	paid, err := repo.PaidPayrollIDs(ctx, []int64{id})
	if err != nil {
		return err
	}
	if _, ok := paid[id]; ok {
		return triperrors.ErrTripAlreadyPaid
	}
	return nil
}

func (s *service) withPaidStatus(ctx context.Context, rows []TripRow) ([]TripResponse, error) {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	paid, err := s.repo.PaidPayrollIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]TripResponse, len(rows))
	for i, r := range rows {
		resp[i] = ToResponse(r, paid[r.ID])
	}
	return resp, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return triperrors.ErrTripNotFound
	}
	return err
}

func ToResponse(r TripRow, paidPayrollID int64) TripResponse {
	resp := TripResponse{
		ID:         r.ID,
		DriverID:   r.DriverID,
		DriverName: r.DriverName,
		RouteID:    r.RouteID,
		RouteName:  r.RouteName,
		Date:       r.Date.Format(request.DateLayout),
		Time:       r.Time,
		Trips:      r.Trips,
		LoadNumber: r.LoadNumber,
		Status:     r.Status,
	}
	if paidPayrollID != 0 {
		resp.IsPaid = true
		resp.PaidPayrollID = &paidPayrollID
	}
	return resp
}
