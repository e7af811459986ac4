package advance

import (
	"context"
	"errors"

	advanceerrors "go-fleetpay/internal/advance/errors"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/request"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=advance_service.go -destination=mock/advance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAll(ctx context.Context, filter GetAdvancesFilterRequest) (AdvanceListResponse, error)
	GetByID(ctx context.Context, id, ownDriverID int64) (AdvanceResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	drivers driver.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, drivers driver.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("advance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("advance.service")
	}
	return &service{repo: repo, drivers: drivers, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !req.Amount.IsPositive() {
		return AdvanceResponse{}, advanceerrors.ErrAmountNotPositive
	}
	date, err := request.ParseDate(req.Date)
	if err != nil {
		return AdvanceResponse{}, err
	}

	if _, err := s.drivers.FindByID(ctx, req.DriverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdvanceResponse{}, advanceerrors.ErrUnknownDriver
		}
		return AdvanceResponse{}, err
	}

	amount := req.Amount.Round(2)
	a := &Advance{
		DriverID:        req.DriverID,
		Date:            date,
		Description:     req.Description,
		Amount:          amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		l.Error("create advance persist failed", zap.Error(err))
		return AdvanceResponse{}, err
	}

	l.Info("advance granted",
		zap.Int64("advance_id", a.ID),
		zap.Int64("driver_id", a.DriverID),
		zap.String("amount", a.Amount.StringFixed(2)),
	)
	return ToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, filter GetAdvancesFilterRequest) (AdvanceListResponse, error) {
	start, end, err := request.ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return AdvanceListResponse{}, err
	}

	advances, err := s.repo.FindAll(ctx, Filter{
		DriverID:        filter.DriverID,
		StartDate:       start,
		EndDate:         end,
		OutstandingOnly: filter.OutstandingOnly,
	})
	if err != nil {
		return AdvanceListResponse{}, err
	}

	resp := AdvanceListResponse{Items: make([]AdvanceResponse, len(advances)), Outstanding: decimal.Zero}
	for i, a := range advances {
		resp.Items[i] = ToResponse(a)
		resp.Outstanding = resp.Outstanding.Add(a.RemainingAmount)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id, ownDriverID int64) (AdvanceResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return AdvanceResponse{}, mapRepositoryError(err)
	}
	if ownDriverID != 0 && a.DriverID != ownDriverID {
		return AdvanceResponse{}, advanceerrors.ErrAdvanceNotFound
	}
	return ToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !a.PaidAmount.IsZero() {
		return advanceerrors.ErrAdvancePartiallyPaid
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return advanceerrors.ErrAdvancePartiallyPaid
		}
		return err
	}
	return nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return advanceerrors.ErrAdvanceNotFound
	}
	return err
}

func ToResponse(a Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:              a.ID,
		DriverID:        a.DriverID,
		Date:            a.Date.Format(request.DateLayout),
		Description:     a.Description,
		Amount:          a.Amount,
		PaidAmount:      a.PaidAmount,
		RemainingAmount: a.RemainingAmount,
	}
}
