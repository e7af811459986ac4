package ledger

import (
	"context"
	"strconv"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/expense"
	ledgererrors "go-fleetpay/internal/ledger/errors"
	"go-fleetpay/internal/payroll"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/trip"
	"go-fleetpay/internal/user"

	"go.uber.org/zap"
)

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// EnsureSchema records SchemaVersion, refusing a ledger written by a
	// newer build.
	EnsureSchema(ctx context.Context) error
	Snapshot(ctx context.Context) (SnapshotResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) EnsureSchema(ctx context.Context) error {
	stored, found, err := s.repo.GetMeta(ctx, SchemaVersionKey)
	if err != nil {
		return err
	}

	if found {
		v, err := strconv.Atoi(stored)
		if err != nil {
			return ledgererrors.ErrCorruptSchemaVersion
		}
		if v > SchemaVersion {
			s.logger.Error("ledger schema is newer than supported",
				zap.Int("stored", v),
				zap.Int("supported", SchemaVersion),
			)
			return ledgererrors.ErrSchemaTooNew
		}
		if v == SchemaVersion {
			return nil
		}
	}

	if err := s.repo.PutMeta(ctx, SchemaVersionKey, strconv.Itoa(SchemaVersion)); err != nil {
		return err
	}
	s.logger.Info("ledger schema version recorded", zap.Int("version", SchemaVersion))
	return nil
}

func (s *service) Snapshot(ctx context.Context) (SnapshotResponse, error) {
	c, err := s.repo.LoadCollections(ctx)
	if err != nil {
		return SnapshotResponse{}, err
	}

	resp := SnapshotResponse{
		SchemaVersion: SchemaVersion,
		Drivers:       make(map[int64]driver.DriverResponse, len(c.Drivers)),
		Routes:        make(map[int64]route.RouteResponse, len(c.Routes)),
		Trips:         make(map[int64]trip.TripResponse, len(c.Trips)),
		Expenses:      make(map[int64]expense.ExpenseResponse, len(c.Expenses)),
		Advances:      make(map[int64]advance.AdvanceResponse, len(c.Advances)),
		Payrolls:      make(map[int64]payroll.PayrollResponse, len(c.Payrolls)),
		Users:         make(map[int64]user.UserResponse, len(c.Users)),
	}
	for _, d := range c.Drivers {
		resp.Drivers[d.ID] = driver.ToResponse(d)
	}
	for _, r := range c.Routes {
		resp.Routes[r.ID] = route.ToResponse(r)
	}
	for _, t := range c.Trips {
		resp.Trips[t.ID] = trip.ToResponse(t, c.Paid[t.ID])
	}
	for _, e := range c.Expenses {
		resp.Expenses[e.ID] = expense.ToResponse(e)
	}
	for _, a := range c.Advances {
		resp.Advances[a.ID] = advance.ToResponse(a)
	}
	for _, p := range c.Payrolls {
		resp.Payrolls[p.ID] = payroll.ToResponse(p)
	}
	for _, u := range c.Users {
		resp.Users[u.ID] = user.ToResponse(u)
	}
	return resp, nil
}
