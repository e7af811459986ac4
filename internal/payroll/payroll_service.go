package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/events"
	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/messaging/kafka"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/counter"
	"go-fleetpay/internal/shared/locker"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/trip"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultSettleLockTTL = 30 * time.Second

// CacheInvalidator drops read models that depend on settled payrolls.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Draft(ctx context.Context, req DraftRequest) (DraftResultResponse, error)
	EditDeductions(ctx context.Context, req EditDeductionsRequest) (DraftResultResponse, error)
	Settle(ctx context.Context, actorID int64, req SettleRequest) (SettleResponse, error)
	GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollSummaryResponse, int64, error)
	GetByID(ctx context.Context, id, ownDriverID int64) (PayrollResponse, error)
	Totals(ctx context.Context, ownDriverID int64) (TotalsResponse, error)
	Statement(ctx context.Context, id, ownDriverID int64, format string) (Statement, error)
	// RenderStatements writes every missing statement format of a payroll.
	RenderStatements(ctx context.Context, payrollID int64) (int, error)
}

type Dependencies struct {
	Payrolls   Repository
	Trips      trip.Repository
	Expenses   expense.Repository
	Advances   advance.Repository
	Drivers    driver.Repository
	Counter    counter.Repository
	Outbox     kafka.OutboxRepository
	Locker     locker.Locker
	Statements StatementStore
	Cache      CacheInvalidator
	LockTTL    time.Duration
}

type service struct {
	db *sql.DB
	Dependencies
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if deps.Locker == nil {
		deps.Locker = locker.NewLocal()
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = DefaultSettleLockTTL
	}
	return &service{db: db, Dependencies: deps, now: time.Now, logger: l}
}

func SettleLockKey(driverID int64) string {
	return fmt.Sprintf("payroll:settle:driver:%d", driverID)
}

func (s *service) Draft(ctx context.Context, req DraftRequest) (DraftResultResponse, error) {
	p, err := NewPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return DraftResultResponse{}, err
	}
	if _, err := s.findDriver(ctx, req.DriverID); err != nil {
		return DraftResultResponse{}, err
	}

	l, err := s.loadLedger(ctx, req.DriverID, p)
	if err != nil {
		return DraftResultResponse{}, err
	}

	res := Calculate(l, req.DriverID, p)
	return mapToDraftResult(res, l.Routes, nil), nil
}

func (s *service) EditDeductions(ctx context.Context, req EditDeductionsRequest) (DraftResultResponse, error) {
	p, err := NewPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return DraftResultResponse{}, err
	}
	if _, err := s.findDriver(ctx, req.DriverID); err != nil {
		return DraftResultResponse{}, err
	}

	l, err := s.loadLedger(ctx, req.DriverID, p)
	if err != nil {
		return DraftResultResponse{}, err
	}

	res := Calculate(l, req.DriverID, p)
	if res.Draft == nil {
		return mapToDraftResult(res, l.Routes, nil), nil
	}

	applied, err := res.Draft.ApplyDeductions(toDeductionEdits(req.AdvanceDeductions))
	if err != nil {
		return DraftResultResponse{}, err
	}
	clamped := make(map[int64]bool, len(applied))
	for _, c := range applied {
		clamped[c.AdvanceID] = true
	}

	return mapToDraftResult(res, l.Routes, clamped), nil
}

func (s *service) Settle(ctx context.Context, actorID int64, req SettleRequest) (SettleResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	p, err := NewPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return SettleResponse{}, err
	}
	d, err := s.findDriver(ctx, req.DriverID)
	if err != nil {
		return SettleResponse{}, err
	}

	lock, err := s.Locker.Obtain(ctx, SettleLockKey(req.DriverID), s.LockTTL)
	if err != nil {
		if errors.Is(err, locker.ErrNotObtained) {
			return SettleResponse{}, payrollerrors.ErrSettlementInProgress
		}
		log.Error("obtain settle lock failed", zap.Int64("driver_id", req.DriverID), zap.Error(err))
		return SettleResponse{}, err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("release settle lock failed", zap.Int64("driver_id", req.DriverID), zap.Error(err))
		}
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("settle payroll begin tx failed", zap.Error(err))
		return SettleResponse{}, err
	}
	defer tx.Rollback()

	payrolls := s.Payrolls.WithTx(tx)
	expenses := s.Expenses.WithTx(tx)
	advances := s.Advances.WithTx(tx)

	l, err := s.lockLedger(ctx, tx, req)
	if err != nil {
		return SettleResponse{}, err
	}

	number, err := s.Counter.WithTx(tx).GetNextValue(ctx, counter.PayrollNumber)
	if err != nil {
		log.Error("allocate payroll number failed", zap.Error(err))
		return SettleResponse{}, err
	}

	settlement, err := Settle(l, SettleInput{
		DriverID:      req.DriverID,
		DriverName:    d.Name,
		Period:        p,
		TripIDs:       req.TripIDs,
		ExpenseIDs:    req.ExpenseIDs,
		Deductions:    toDeductionEdits(req.AdvanceDeductions),
		PayrollNumber: number,
		EmissionDate:  today(s.now()),
		SettledBy:     actorID,
	})
	if err != nil {
		return SettleResponse{}, err
	}

	pr := &settlement.Payroll
	if err := payrolls.Create(ctx, pr); err != nil {
		log.Error("persist payroll failed", zap.Int64("payroll_number", number), zap.Error(err))
		return SettleResponse{}, mapRepositoryError(err)
	}

	expenseIDs := make([]int64, len(settlement.UpdatedExpenses))
	for i, e := range settlement.UpdatedExpenses {
		expenseIDs[i] = e.ID
	}
	marked, err := expenses.MarkPaid(ctx, expenseIDs, number)
	if err != nil {
		return SettleResponse{}, err
	}
	if marked != int64(len(expenseIDs)) {
		return SettleResponse{}, payrollerrors.ErrStaleDraft
	}

	for _, ded := range pr.AdvanceDeductionDetails {
		if err := advances.ApplyDeduction(ctx, ded.AdvanceID, ded.DeductedAmount); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return SettleResponse{}, payrollerrors.ErrStaleDraft
			}
			return SettleResponse{}, err
		}
	}

	if err := s.writeSettledEvent(ctx, tx, pr); err != nil {
		log.Error("settle payroll outbox persist failed", zap.Int64("payroll_id", pr.ID), zap.Error(err))
		return SettleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("settle payroll commit failed", zap.Error(err))
		return SettleResponse{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			log.Warn("invalidate statistics cache failed", zap.Error(err))
		}
	}

	log.Info("payroll settled",
		zap.Int64("payroll_id", pr.ID),
		zap.Int64("payroll_number", pr.PayrollNumber),
		zap.Int64("driver_id", pr.DriverID),
		zap.Int("trips", len(pr.Details)),
		zap.Int("expenses", len(pr.ExpenseDetails)),
		zap.Int("advances", len(pr.AdvanceDeductionDetails)),
		zap.String("net", pr.TotalNetPayment.StringFixed(2)),
	)

	resp := SettleResponse{
		Payroll:            ToResponse(*pr),
		Clamped:            []ClampedDeductionResponse{},
		UnresolvedRouteIDs: nonNilIDs(settlement.UnresolvedRouteIDs),
	}
	for _, c := range settlement.Clamped {
		resp.Clamped = append(resp.Clamped, ClampedDeductionResponse{AdvanceID: c.AdvanceID, Requested: c.Requested, Applied: c.Applied})
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollSummaryResponse, int64, error) {
	start, end, err := request.ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, 0, err
	}

	payrolls, total, err := s.Payrolls.FindAll(ctx, Filter{
		DriverID:  filter.DriverID,
		StartDate: start,
		EndDate:   end,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	resp := make([]PayrollSummaryResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToSummary(p)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id, ownDriverID int64) (PayrollResponse, error) {
	p, err := s.findPayroll(ctx, id, ownDriverID)
	if err != nil {
		return PayrollResponse{}, err
	}
	return ToResponse(*p), nil
}

func (s *service) Totals(ctx context.Context, ownDriverID int64) (TotalsResponse, error) {
	totals, err := s.Payrolls.Totals(ctx)
	if err != nil {
		return TotalsResponse{}, err
	}

	resp := TotalsResponse{Drivers: []DriverTotalResponse{}, Overall: decimal.Zero}
	for _, t := range totals {
		if ownDriverID != 0 && t.DriverID != ownDriverID {
			continue
		}
		resp.Drivers = append(resp.Drivers, DriverTotalResponse{
			DriverID:        t.DriverID,
			DriverName:      t.DriverName,
			PayrollCount:    t.PayrollCount,
			TotalNetPayment: t.TotalNetPayment,
		})
		resp.Overall = resp.Overall.Add(t.TotalNetPayment)
	}
	return resp, nil
}

func (s *service) findDriver(ctx context.Context, id int64) (*driver.Driver, error) {
	d, err := s.Drivers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrDriverNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *service) findPayroll(ctx context.Context, id, ownDriverID int64) (*Payroll, error) {
	p, err := s.Payrolls.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if ownDriverID != 0 && p.DriverID != ownDriverID {
		return nil, payrollerrors.ErrPayrollNotFound
	}
	return p, nil
}

// loadLedger reads what a draft needs without taking locks.
func (s *service) loadLedger(ctx context.Context, driverID int64, p Period) (Ledger, error) {
	rows, err := s.Trips.FindAll(ctx, trip.Filter{DriverID: driverID, StartDate: &p.Start, EndDate: &p.End})
	if err != nil {
		return Ledger{}, err
	}
	trips := make([]trip.Trip, len(rows))
	for i, r := range rows {
		trips[i] = r.Trip
	}

	paid, err := s.Payrolls.PaidTripIndex(ctx, tripIDs(trips))
	if err != nil {
		return Ledger{}, err
	}
	routes, err := s.Payrolls.FindRoutes(ctx, routeIDs(trips))
	if err != nil {
		return Ledger{}, err
	}

	unpaid := false
	exps, err := s.Expenses.FindAll(ctx, expense.Filter{DriverID: driverID, StartDate: &p.Start, EndDate: &p.End, IsPaid: &unpaid})
	if err != nil {
		return Ledger{}, err
	}
	advs, err := s.Advances.FindAll(ctx, advance.Filter{DriverID: driverID})
	if err != nil {
		return Ledger{}, err
	}

	return Ledger{Routes: routes, Trips: trips, Expenses: exps, Advances: advs, Paid: paid}, nil
}

// lockLedger re-reads the settlement inputs inside tx. Expenses and
// advances of the driver are locked FOR UPDATE; trips are guarded by the
// unique trip index on payroll details.
func (s *service) lockLedger(ctx context.Context, tx *sql.Tx, req SettleRequest) (Ledger, error) {
	exps, err := s.Expenses.WithTx(tx).LockByDriver(ctx, req.DriverID)
	if err != nil {
		return Ledger{}, err
	}
	advs, err := s.Advances.WithTx(tx).LockByDriver(ctx, req.DriverID)
	if err != nil {
		return Ledger{}, err
	}
	trips, err := s.Trips.WithTx(tx).FindByIDs(ctx, req.TripIDs)
	if err != nil {
		return Ledger{}, err
	}

	payrolls := s.Payrolls.WithTx(tx)
	paid, err := payrolls.PaidTripIndex(ctx, req.TripIDs)
	if err != nil {
		return Ledger{}, err
	}
	routes, err := payrolls.FindRoutes(ctx, routeIDs(trips))
	if err != nil {
		return Ledger{}, err
	}

	return Ledger{Routes: routes, Trips: trips, Expenses: exps, Advances: advs, Paid: paid}, nil
}

func (s *service) writeSettledEvent(ctx context.Context, tx *sql.Tx, p *Payroll) error {
	if s.Outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.PayrollSettledEvent{
		EventType:       events.PayrollSettledEventType,
		RequestID:       rid,
		PayrollID:       p.ID,
		PayrollNumber:   p.PayrollNumber,
		DriverID:        p.DriverID,
		TotalNetPayment: p.TotalNetPayment,
		SettledBy:       p.SettledBy,
		OccurredAt:      s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.Outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payroll",
		AggregateID:   strconv.FormatInt(p.ID, 10),
		EventType:     event.EventType,
		Topic:         events.PayrollSettledTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func toDeductionEdits(reqs []DeductionEditRequest) []DeductionEdit {
	if reqs == nil {
		return nil
	}
	edits := make([]DeductionEdit, len(reqs))
	for i, r := range reqs {
		edits[i] = DeductionEdit{AdvanceID: r.AdvanceID, Amount: r.DeductedAmount}
	}
	return edits
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func tripIDs(trips []trip.Trip) []int64 {
	ids := make([]int64, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	return ids
}

func routeIDs(trips []trip.Trip) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, t := range trips {
		if !seen[t.RouteID] {
			seen[t.RouteID] = true
			ids = append(ids, t.RouteID)
		}
	}
	return ids
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_payroll_trip", "uq_payroll_expense":
			return payrollerrors.ErrStaleDraft
		default:
			return payrollerrors.ErrSettlementInProgress
		}
	}
	return err
}

func mapToDraftResult(res DraftResult, routes map[int64]route.Route, clamped map[int64]bool) DraftResultResponse {
	if res.Draft == nil {
		return DraftResultResponse{Reason: res.Reason}
	}
	d := res.Draft

	draft := &DraftResponse{
		DriverID:              d.DriverID,
		StartDate:             d.Period.Start.Format(request.DateLayout),
		EndDate:               d.Period.End.Format(request.DateLayout),
		Trips:                 make([]DraftTripResponse, len(d.Trips)),
		Expenses:              make([]ExpenseLineResponse, len(d.Expenses)),
		AdvanceDeductions:     make([]DeductionResponse, len(d.Deductions)),
		TotalGrossPayment:     d.GrossPayment,
		TotalExpenses:         d.TotalExpenses,
		TotalAdvancesDeducted: d.TotalAdvancesDeducted,
		TotalNetPayment:       d.NetPayment,
		UnresolvedRouteIDs:    nonNilIDs(d.UnresolvedRouteIDs),
	}
	for i, t := range d.Trips {
		line := DraftTripResponse{
			TripID:      t.ID,
			Date:        t.Date.Format(request.DateLayout),
			Time:        t.Time,
			RouteID:     t.RouteID,
			LoadNumber:  t.LoadNumber,
			Trips:       t.Trips,
			CostPerTrip: decimal.Zero,
			Total:       TripPay(routes, t),
		}
		if r, ok := routes[t.RouteID]; ok {
			line.RouteName = r.Name
			line.CostPerTrip = r.DriverPay
		}
		draft.Trips[i] = line
	}
	for i, e := range d.Expenses {
		draft.Expenses[i] = ExpenseLineResponse{ExpenseID: e.ID, Date: e.Date.Format(request.DateLayout), Description: e.Description, Amount: e.Amount}
	}
	for i, ded := range d.Deductions {
		a := ded.Advance
		draft.AdvanceDeductions[i] = DeductionResponse{
			AdvanceID:       a.ID,
			Date:            a.Date.Format(request.DateLayout),
			Amount:          a.Amount,
			PaidAmount:      a.PaidAmount,
			RemainingAmount: a.RemainingAmount,
			DeductedAmount:  ded.DeductedAmount,
			Clamped:         clamped[a.ID],
		}
	}

	return DraftResultResponse{Reason: res.Reason, Draft: draft}
}

func mapToSummary(p Payroll) PayrollSummaryResponse {
	return PayrollSummaryResponse{
		ID:                    p.ID,
		PayrollNumber:         p.PayrollNumber,
		EmissionDate:          p.EmissionDate.Format(request.DateLayout),
		DriverID:              p.DriverID,
		DriverName:            p.DriverName,
		StartDate:             p.StartDate.Format(request.DateLayout),
		EndDate:               p.EndDate.Format(request.DateLayout),
		TotalGrossPayment:     p.TotalGrossPayment,
		TotalExpenses:         p.TotalExpenses,
		TotalAdvancesDeducted: p.TotalAdvancesDeducted,
		TotalNetPayment:       p.TotalNetPayment,
	}
}

func ToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		PayrollSummaryResponse:  mapToSummary(p),
		Details:                 make([]DraftTripResponse, len(p.Details)),
		ExpenseDetails:          make([]ExpenseLineResponse, len(p.ExpenseDetails)),
		AdvanceDeductionDetails: make([]DeductionResponse, len(p.AdvanceDeductionDetails)),
	}
	for i, d := range p.Details {
		resp.Details[i] = DraftTripResponse{
			TripID:      d.TripID,
			Date:        d.Date.Format(request.DateLayout),
			Time:        d.Time,
			RouteID:     d.RouteID,
			RouteName:   d.RouteName,
			LoadNumber:  d.LoadNumber,
			Trips:       d.Trips,
			CostPerTrip: d.CostPerTrip,
			Total:       d.Total,
		}
	}
	for i, e := range p.ExpenseDetails {
		resp.ExpenseDetails[i] = ExpenseLineResponse{ExpenseID: e.ExpenseID, Date: e.Date.Format(request.DateLayout), Description: e.Description, Amount: e.Amount}
	}
	for i, a := range p.AdvanceDeductionDetails {
		resp.AdvanceDeductionDetails[i] = DeductionResponse{
			AdvanceID:       a.AdvanceID,
			Date:            a.Date.Format(request.DateLayout),
			Amount:          a.Amount,
			PaidAmount:      a.PaidAmount,
			RemainingAmount: a.RemainingAmount,
			DeductedAmount:  a.DeductedAmount,
		}
	}
	return resp
}
