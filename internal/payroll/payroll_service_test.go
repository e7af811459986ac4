package payroll_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-fleetpay/internal/advance"
	advancemock "go-fleetpay/internal/advance/mock"
	"go-fleetpay/internal/driver"
	drivermock "go-fleetpay/internal/driver/mock"
	"go-fleetpay/internal/events"
	"go-fleetpay/internal/expense"
	expensemock "go-fleetpay/internal/expense/mock"
	"go-fleetpay/internal/messaging/kafka"
	outboxmock "go-fleetpay/internal/messaging/kafka/mock"
	"go-fleetpay/internal/payroll"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/shared/counter"
	countermock "go-fleetpay/internal/shared/counter/mock"
	"go-fleetpay/internal/shared/locker"
	"go-fleetpay/internal/trip"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	payroll.Repository
	createFn   func(ctx context.Context, p *payroll.Payroll) error
	findByIDFn func(ctx context.Context, id int64) (*payroll.Payroll, error)
	totalsFn   func(ctx context.Context) ([]payroll.DriverTotal, error)
	paid       payroll.PaidTripIndex
	routes     map[int64]route.Route
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id int64) (*payroll.Payroll, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakePayrollRepository) Totals(ctx context.Context) ([]payroll.DriverTotal, error) {
	return f.totalsFn(ctx)
}

func (f *fakePayrollRepository) PaidTripIndex(ctx context.Context, tripIDs []int64) (payroll.PaidTripIndex, error) {
	if f.paid == nil {
		return payroll.PaidTripIndex{}, nil
	}
	return f.paid, nil
}

func (f *fakePayrollRepository) FindRoutes(ctx context.Context, ids []int64) (map[int64]route.Route, error) {
	return f.routes, nil
}

type fakeTripRepository struct {
	trip.Repository
	trips []trip.Trip
}

func (f *fakeTripRepository) WithTx(tx *sql.Tx) trip.Repository {
	return f
}

func (f *fakeTripRepository) FindAll(ctx context.Context, filter trip.Filter) ([]trip.TripRow, error) {
	rows := make([]trip.TripRow, 0, len(f.trips))
	for _, t := range f.trips {
		if t.DriverID == filter.DriverID {
			rows = append(rows, trip.TripRow{Trip: t})
		}
	}
	return rows, nil
}

func (f *fakeTripRepository) FindByIDs(ctx context.Context, ids []int64) ([]trip.Trip, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []trip.Trip
	for _, t := range f.trips {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

type countingCache struct {
	calls int
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

func marchDay(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

type payrollServiceEnv struct {
	sqlMock  sqlmock.Sqlmock
	drivers  *drivermock.MockRepository
	expenses *expensemock.MockRepository
	advances *advancemock.MockRepository
	counter  *countermock.MockRepository
	outbox   *outboxmock.MockOutboxRepository
	payrolls *fakePayrollRepository
	trips    *fakeTripRepository
	cache    *countingCache
	locker   locker.Locker
	svc      payroll.Service
}

func setupPayrollService(t *testing.T) *payrollServiceEnv {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	env := &payrollServiceEnv{
		sqlMock:  sqlMock,
		drivers:  drivermock.NewMockRepository(ctrl),
		expenses: expensemock.NewMockRepository(ctrl),
		advances: advancemock.NewMockRepository(ctrl),
		counter:  countermock.NewMockRepository(ctrl),
		outbox:   outboxmock.NewMockOutboxRepository(ctrl),
		payrolls: &fakePayrollRepository{
			routes: map[int64]route.Route{10: {ID: 10, Name: "Norte", DriverPay: decimal.NewFromInt(100)}},
		},
		trips: &fakeTripRepository{trips: []trip.Trip{
			{ID: 1, DriverID: 1, RouteID: 10, Date: marchDay(2), Trips: 1},
			{ID: 2, DriverID: 1, RouteID: 10, Date: marchDay(9), Trips: 1},
			{ID: 3, DriverID: 1, RouteID: 10, Date: marchDay(16), Trips: 1},
			{ID: 4, DriverID: 1, RouteID: 10, Date: marchDay(23), Trips: 1},
		}},
		cache:  &countingCache{},
		locker: locker.NewLocal(),
	}
	env.expenses.EXPECT().WithTx(gomock.Any()).Return(env.expenses).AnyTimes()
	env.advances.EXPECT().WithTx(gomock.Any()).Return(env.advances).AnyTimes()
	env.counter.EXPECT().WithTx(gomock.Any()).Return(env.counter).AnyTimes()
	env.outbox.EXPECT().WithTx(gomock.Any()).Return(env.outbox).AnyTimes()

	env.svc = payroll.NewService(db, payroll.Dependencies{
		Payrolls: env.payrolls,
		Trips:    env.trips,
		Expenses: env.expenses,
		Advances: env.advances,
		Drivers:  env.drivers,
		Counter:  env.counter,
		Outbox:   env.outbox,
		Locker:   env.locker,
		Cache:    env.cache,
	})
	return env
}

func fuel() expense.Expense {
	return expense.Expense{ID: 7, DriverID: 1, Date: marchDay(5), Description: "Fuel", Amount: decimal.NewFromInt(50)}
}

func loan() advance.Advance {
	return advance.Advance{ID: 3, DriverID: 1, Date: marchDay(1), Amount: decimal.NewFromInt(100), PaidAmount: decimal.Zero, RemainingAmount: decimal.NewFromInt(100)}
}

func settleRequest() payroll.SettleRequest {
	return payroll.SettleRequest{
		DriverID:   1,
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31",
		TripIDs:    []int64{1, 2, 3, 4},
		ExpenseIDs: []int64{7},
	}
}

func TestPayrollService_Draft(t *testing.T) {
	ctx := context.Background()

	t.Run("ready", func(t *testing.T) {
		env := setupPayrollService(t)
		env.drivers.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&driver.Driver{ID: 1, Name: "Ana"}, nil)
		env.expenses.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return([]expense.Expense{fuel()}, nil)
		env.advances.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return([]advance.Advance{loan()}, nil)

		resp, err := env.svc.Draft(ctx, payroll.DraftRequest{DriverID: 1, StartDate: "2026-03-01", EndDate: "2026-03-31"})

		require.NoError(t, err)
		assert.Equal(t, payroll.ReasonReady, resp.Reason)
		require.NotNil(t, resp.Draft)
		assert.Len(t, resp.Draft.Trips, 4)
		assert.Equal(t, "400.00", resp.Draft.TotalGrossPayment.StringFixed(2))
		assert.Equal(t, "50.00", resp.Draft.TotalExpenses.StringFixed(2))
		assert.Equal(t, "100.00", resp.Draft.TotalAdvancesDeducted.StringFixed(2))
		assert.Equal(t, "250.00", resp.Draft.TotalNetPayment.StringFixed(2))
	})

	t.Run("nothing to pay", func(t *testing.T) {
		env := setupPayrollService(t)
		env.trips.trips = nil
		env.drivers.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&driver.Driver{ID: 1, Name: "Ana"}, nil)
		env.expenses.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(nil, nil)
		env.advances.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return([]advance.Advance{loan()}, nil)

		resp, err := env.svc.Draft(ctx, payroll.DraftRequest{DriverID: 1, StartDate: "2026-03-01", EndDate: "2026-03-31"})

		require.NoError(t, err)
		assert.Equal(t, payroll.ReasonNothingToPay, resp.Reason)
		assert.Nil(t, resp.Draft)
	})

	t.Run("inverted period", func(t *testing.T) {
		env := setupPayrollService(t)

		_, err := env.svc.Draft(ctx, payroll.DraftRequest{DriverID: 1, StartDate: "2026-03-31", EndDate: "2026-03-01"})

		assert.Error(t, err)
	})
}

func TestPayrollService_Settle(t *testing.T) {
	env := setupPayrollService(t)
	ctx := context.Background()

	env.sqlMock.ExpectBegin()
	env.sqlMock.ExpectCommit()

	env.drivers.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&driver.Driver{ID: 1, Name: "Ana"}, nil)
	env.expenses.EXPECT().LockByDriver(gomock.Any(), int64(1)).Return([]expense.Expense{fuel()}, nil)
	env.advances.EXPECT().LockByDriver(gomock.Any(), int64(1)).Return([]advance.Advance{loan()}, nil)
	env.counter.EXPECT().GetNextValue(gomock.Any(), counter.PayrollNumber).Return(int64(12), nil)
	env.expenses.EXPECT().MarkPaid(gomock.Any(), []int64{7}, int64(12)).Return(int64(1), nil)
	env.advances.EXPECT().ApplyDeduction(gomock.Any(), int64(3), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id int64, amount decimal.Decimal) error {
			assert.Equal(t, "100.00", amount.StringFixed(2))
			return nil
		})

	var stored *payroll.Payroll
	env.payrolls.createFn = func(ctx context.Context, p *payroll.Payroll) error {
		p.ID = 5
		stored = p
		return nil
	}
	env.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
		assert.Equal(t, events.PayrollSettledTopic, ev.Topic)
		assert.Equal(t, "5", ev.AggregateID)

		var payload events.PayrollSettledEvent
		assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, int64(12), payload.PayrollNumber)
		assert.Equal(t, "250.00", payload.TotalNetPayment.StringFixed(2))
		return nil
	})

	resp, err := env.svc.Settle(ctx, 99, settleRequest())

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(12), resp.Payroll.PayrollNumber)
	assert.Equal(t, "Ana", resp.Payroll.DriverName)
	assert.Len(t, resp.Payroll.Details, 4)
	assert.Len(t, resp.Payroll.ExpenseDetails, 1)
	assert.Len(t, resp.Payroll.AdvanceDeductionDetails, 1)
	assert.Equal(t, "250.00", resp.Payroll.TotalNetPayment.StringFixed(2))
	assert.Equal(t, int64(99), stored.SettledBy)
	assert.Empty(t, resp.Clamped)
	assert.Equal(t, 1, env.cache.calls)
	assert.NoError(t, env.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Settle_LockHeld(t *testing.T) {
	env := setupPayrollService(t)
	ctx := context.Background()

	held, err := env.locker.Obtain(ctx, payroll.SettleLockKey(1), time.Minute)
	require.NoError(t, err)
	defer held.Release(ctx)

	env.drivers.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&driver.Driver{ID: 1, Name: "Ana"}, nil)

	_, err = env.svc.Settle(ctx, 99, settleRequest())

	assert.ErrorIs(t, err, payrollerrors.ErrSettlementInProgress)
	assert.NoError(t, env.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Settle_ExpensePaidConcurrently(t *testing.T) {
	env := setupPayrollService(t)
	ctx := context.Background()

	env.sqlMock.ExpectBegin()
	env.sqlMock.ExpectRollback()

	env.drivers.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&driver.Driver{ID: 1, Name: "Ana"}, nil)
	env.expenses.EXPECT().LockByDriver(gomock.Any(), int64(1)).Return([]expense.Expense{fuel()}, nil)
	env.advances.EXPECT().LockByDriver(gomock.Any(), int64(1)).Return(nil, nil)
	env.counter.EXPECT().GetNextValue(gomock.Any(), counter.PayrollNumber).Return(int64(13), nil)
	env.expenses.EXPECT().MarkPaid(gomock.Any(), []int64{7}, int64(13)).Return(int64(0), nil)

	_, err := env.svc.Settle(ctx, 99, settleRequest())

	assert.ErrorIs(t, err, payrollerrors.ErrStaleDraft)
	assert.Equal(t, 0, env.cache.calls)
	assert.NoError(t, env.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Settle_UnknownDriver(t *testing.T) {
	env := setupPayrollService(t)
	env.drivers.EXPECT().FindByID(gomock.Any(), int64(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := env.svc.Settle(context.Background(), 99, settleRequest())

	assert.ErrorIs(t, err, payrollerrors.ErrDriverNotFound)
}

func settledPayroll() *payroll.Payroll {
	return &payroll.Payroll{
		ID:                    5,
		PayrollNumber:         12,
		EmissionDate:          marchDay(31),
		DriverID:              1,
		DriverName:            "Ana",
		StartDate:             marchDay(1),
		EndDate:               marchDay(31),
		TotalGrossPayment:     decimal.NewFromInt(400),
		TotalExpenses:         decimal.NewFromInt(50),
		TotalAdvancesDeducted: decimal.NewFromInt(100),
		TotalNetPayment:       decimal.NewFromInt(250),
		Details: []payroll.TripDetail{
			{TripID: 1, Date: marchDay(2), RouteName: "Norte", Trips: 1, CostPerTrip: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)},
		},
		ExpenseDetails:          []payroll.ExpenseDetail{{ExpenseID: 7, Date: marchDay(5), Description: "Fuel", Amount: decimal.NewFromInt(50)}},
		AdvanceDeductionDetails: []payroll.AdvanceDeductionDetail{{AdvanceID: 3, Date: marchDay(1), Amount: decimal.NewFromInt(100), DeductedAmount: decimal.NewFromInt(100)}},
	}
}

func TestPayrollService_GetByID_OtherDriver(t *testing.T) {
	env := setupPayrollService(t)
	env.payrolls.findByIDFn = func(ctx context.Context, id int64) (*payroll.Payroll, error) {
		return settledPayroll(), nil
	}

	_, err := env.svc.GetByID(context.Background(), 5, 2)
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)

	resp, err := env.svc.GetByID(context.Background(), 5, 1)
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-31", resp.EmissionDate)
}

func TestPayrollService_Totals(t *testing.T) {
	env := setupPayrollService(t)
	env.payrolls.totalsFn = func(ctx context.Context) ([]payroll.DriverTotal, error) {
		return []payroll.DriverTotal{
			{DriverID: 1, DriverName: "Ana", PayrollCount: 2, TotalNetPayment: decimal.NewFromInt(500)},
			{DriverID: 2, DriverName: "Luis", PayrollCount: 1, TotalNetPayment: decimal.RequireFromString("120.50")},
		}, nil
	}

	all, err := env.svc.Totals(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all.Drivers, 2)
	assert.Equal(t, "620.50", all.Overall.StringFixed(2))

	own, err := env.svc.Totals(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, own.Drivers, 1)
	assert.Equal(t, "120.50", own.Overall.StringFixed(2))
}

func TestPayrollService_Statement(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T, store payroll.StatementStore) payroll.Service {
		repo := &fakePayrollRepository{findByIDFn: func(ctx context.Context, id int64) (*payroll.Payroll, error) {
			return settledPayroll(), nil
		}}
		return payroll.NewService(nil, payroll.Dependencies{Payrolls: repo, Statements: store})
	}

	t.Run("renders on demand", func(t *testing.T) {
		svc := newService(t, nil)

		xlsx, err := svc.Statement(ctx, 5, 0, payroll.FormatXLSX)
		require.NoError(t, err)
		assert.Equal(t, "payroll-000012.xlsx", xlsx.Filename)
		assert.True(t, bytes.HasPrefix(xlsx.Content, []byte("PK")))

		pdf, err := svc.Statement(ctx, 5, 1, payroll.FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", pdf.ContentType)
		assert.True(t, bytes.HasPrefix(pdf.Content, []byte("%PDF-1.4")))
		assert.Contains(t, string(pdf.Content), "NET PAYMENT")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := newService(t, nil).Statement(ctx, 5, 0, "csv")
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatementFormat)
	})

	t.Run("other driver", func(t *testing.T) {
		_, err := newService(t, nil).Statement(ctx, 5, 2, payroll.FormatPDF)
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})

	t.Run("pre-rendered files are served and never rewritten", func(t *testing.T) {
		store, err := payroll.NewFileStatementStore(t.TempDir())
		require.NoError(t, err)
		svc := newService(t, store)

		written, err := svc.RenderStatements(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, written)

		written, err = svc.RenderStatements(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 0, written)

		stored, _, err := store.Load("payroll-000012.pdf")
		require.NoError(t, err)
		st, err := svc.Statement(ctx, 5, 0, payroll.FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, stored, st.Content)
	})
}
