package expense

import (
	"context"
	"errors"

	"go-fleetpay/internal/driver"
	expenseerrors "go-fleetpay/internal/expense/errors"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/request"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=expense_service.go -destination=mock/expense_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	GetAll(ctx context.Context, filter GetExpensesFilterRequest) (ExpenseListResponse, error)
	GetByID(ctx context.Context, id, ownDriverID int64) (ExpenseResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	drivers driver.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, drivers driver.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("expense.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("expense.service")
	}
	return &service{repo: repo, drivers: drivers, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !req.Amount.IsPositive() {
		return ExpenseResponse{}, expenseerrors.ErrAmountNotPositive
	}
	date, err := request.ParseDate(req.Date)
	if err != nil {
		return ExpenseResponse{}, err
	}

	if _, err := s.drivers.FindByID(ctx, req.DriverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, expenseerrors.ErrUnknownDriver
		}
		return ExpenseResponse{}, err
	}

	e := &Expense{
		DriverID:    req.DriverID,
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount.Round(2),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		l.Error("create expense persist failed", zap.Error(err))
		return ExpenseResponse{}, err
	}

	l.Info("expense recorded",
		zap.Int64("expense_id", e.ID),
		zap.Int64("driver_id", e.DriverID),
		zap.String("amount", e.Amount.StringFixed(2)),
	)
	return ToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, filter GetExpensesFilterRequest) (ExpenseListResponse, error) {
	start, end, err := request.ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return ExpenseListResponse{}, err
	}

	expenses, err := s.repo.FindAll(ctx, Filter{
		DriverID:  filter.DriverID,
		StartDate: start,
		EndDate:   end,
		IsPaid:    filter.IsPaid,
	})
	if err != nil {
		return ExpenseListResponse{}, err
	}

	resp := ExpenseListResponse{Items: make([]ExpenseResponse, len(expenses)), Total: decimal.Zero}
	for i, e := range expenses {
		resp.Items[i] = ToResponse(e)
		resp.Total = resp.Total.Add(e.Amount)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id, ownDriverID int64) (ExpenseResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ExpenseResponse{}, mapRepositoryError(err)
	}
	if ownDriverID != 0 && e.DriverID != ownDriverID {
		return ExpenseResponse{}, expenseerrors.ErrExpenseNotFound
	}
	return ToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if e.IsPaid {
		return expenseerrors.ErrExpenseAlreadyPaid
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		// A concurrent settlement may have paid it between the two reads.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return expenseerrors.ErrExpenseAlreadyPaid
		}
		return err
	}
	return nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return expenseerrors.ErrExpenseNotFound
	}
	return err
}

func ToResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		DriverID:      e.DriverID,
		Date:          e.Date.Format(request.DateLayout),
		Description:   e.Description,
		Amount:        e.Amount,
		IsPaid:        e.IsPaid,
		PayrollNumber: e.PayrollNumber,
	}
}
