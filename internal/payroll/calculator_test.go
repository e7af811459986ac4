package payroll_test

import (
	"testing"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/payroll"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/trip"

	"github.com/stretchr/testify/assert"
)

func march(t *testing.T) payroll.Period {
	t.Helper()
	p, err := payroll.NewPeriod("2026-03-01", "2026-03-31")
	assert.NoError(t, err)
	return p
}

// scenarioLedger is one driver with a $400 trip, a $50 expense and a $100
// advance.
func scenarioLedger() payroll.Ledger {
	return payroll.Ledger{
		Routes: map[int64]route.Route{10: {ID: 10, Name: "Norte", DriverPay: dec("200")}},
		Trips: []trip.Trip{
			{ID: 1, DriverID: 1, RouteID: 10, Date: day("2026-03-05"), Trips: 2},
		},
		Expenses: []expense.Expense{
			{ID: 5, DriverID: 1, Date: day("2026-03-06"), Amount: dec("50")},
		},
		Advances: []advance.Advance{outstanding(9, 1, "2026-02-20", "100", "0")},
		Paid:     payroll.PaidTripIndex{},
	}
}

func TestNewPeriod(t *testing.T) {
	_, err := payroll.NewPeriod("2026-03-10", "2026-03-01")
	assert.Error(t, err)

	p, err := payroll.NewPeriod("2026-03-10", "2026-03-10")
	assert.NoError(t, err)
	assert.True(t, p.Contains(day("2026-03-10")))
	assert.False(t, p.Contains(day("2026-03-11")))
}

func TestCalculate_Scenario(t *testing.T) {
	res := payroll.Calculate(scenarioLedger(), 1, march(t))

	assert.Equal(t, payroll.ReasonReady, res.Reason)
	d := res.Draft
	if assert.NotNil(t, d) {
		assert.Equal(t, "400", d.GrossPayment.String())
		assert.Equal(t, "50", d.TotalExpenses.String())
		assert.Equal(t, "100", d.TotalAdvancesDeducted.String())
		assert.Equal(t, "250", d.NetPayment.String())
		assert.Empty(t, d.UnresolvedRouteIDs)
	}
}

func TestCalculate_Eligibility(t *testing.T) {
	l := scenarioLedger()
	l.Trips = append(l.Trips,
		trip.Trip{ID: 2, DriverID: 1, RouteID: 10, Date: day("2026-04-01"), Trips: 1},
		trip.Trip{ID: 3, DriverID: 2, RouteID: 10, Date: day("2026-03-05"), Trips: 1},
		trip.Trip{ID: 4, DriverID: 1, RouteID: 10, Date: day("2026-03-31"), Trips: 1},
		trip.Trip{ID: 5, DriverID: 1, RouteID: 10, Date: day("2026-03-07"), Trips: 3},
	)
	l.Paid[5] = 42
	l.Expenses = append(l.Expenses, expense.Expense{ID: 6, DriverID: 1, Date: day("2026-03-08"), Amount: dec("20"), IsPaid: true})

	d := payroll.Calculate(l, 1, march(t)).Draft

	var ids []int64
	for _, tr := range d.Trips {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []int64{1, 4}, ids)
	assert.Len(t, d.Expenses, 1)
	assert.Equal(t, "600", d.GrossPayment.String())
}

func TestCalculate_UnknownRoutePaysZero(t *testing.T) {
	l := scenarioLedger()
	l.Trips[0].RouteID = 99
	l.Trips = append(l.Trips, trip.Trip{ID: 2, DriverID: 1, RouteID: 99, Date: day("2026-03-09"), Trips: 1})

	d := payroll.Calculate(l, 1, march(t)).Draft

	assert.Equal(t, []int64{99}, d.UnresolvedRouteIDs)
	assert.True(t, d.GrossPayment.IsZero())
	assert.True(t, d.TotalAdvancesDeducted.IsZero())
	assert.Equal(t, "-50", d.NetPayment.String())
}

func TestCalculate_NothingToPay(t *testing.T) {
	l := scenarioLedger()
	l.Trips = nil
	l.Expenses = nil

	res := payroll.Calculate(l, 1, march(t))

	assert.Nil(t, res.Draft)
	assert.Equal(t, payroll.ReasonNothingToPay, res.Reason)
}

func TestDraft_EditDeduction(t *testing.T) {
	tests := []struct {
		name        string
		advanceID   int64
		amount      string
		wantApplied string
		wantClamped bool
		wantErr     error
		wantNet     string
	}{
		{name: "lower", advanceID: 9, amount: "40", wantApplied: "40", wantNet: "310"},
		{name: "above remaining capacity", advanceID: 9, amount: "150", wantApplied: "100", wantClamped: true, wantNet: "250"},
		{name: "negative", advanceID: 9, amount: "-5", wantApplied: "0", wantClamped: true, wantNet: "350"},
		{name: "foreign advance", advanceID: 77, amount: "10", wantErr: payrollerrors.ErrUnknownAdvance},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := payroll.Calculate(scenarioLedger(), 1, march(t)).Draft

			applied, clamped, err := d.EditDeduction(tc.advanceID, dec(tc.amount))

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantApplied, applied.String())
			assert.Equal(t, tc.wantClamped, clamped)
			assert.Equal(t, tc.wantNet, d.NetPayment.String())
			assert.True(t, d.NetPayment.Equal(d.GrossPayment.Sub(d.TotalExpenses).Sub(d.TotalAdvancesDeducted)))
		})
	}
}

func TestDraft_EditDeduction_UsesStoredBalance(t *testing.T) {
	l := scenarioLedger()
	// remaining_amount drifted from amount - paid_amount; capacity follows the amounts
	l.Advances[0].PaidAmount = dec("70")
	l.Advances[0].RemainingAmount = dec("100")

	d := payroll.Calculate(l, 1, march(t)).Draft
	applied, clamped, err := d.EditDeduction(9, dec("100"))

	assert.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, "30", applied.String())
}

// twoAdvanceLedger adds a later $60 advance to the scenario so the
// allocator would recover from both.
func twoAdvanceLedger() payroll.Ledger {
	l := scenarioLedger()
	l.Advances = append(l.Advances, outstanding(11, 1, "2026-03-01", "60", "0"))
	return l
}

func TestDraft_ApplyDeductions(t *testing.T) {
	tests := []struct {
		name        string
		edits       []payroll.DeductionEdit
		wantIDs     []int64
		wantTotal   string
		wantNet     string
		wantClamped []int64
		wantErr     error
	}{
		{name: "nil keeps the allocation", edits: nil, wantIDs: []int64{9, 11}, wantTotal: "160", wantNet: "190"},
		{name: "empty list deducts nothing", edits: []payroll.DeductionEdit{}, wantTotal: "0", wantNet: "350"},
		{
			name:      "listed advances only",
			edits:     []payroll.DeductionEdit{{AdvanceID: 9, Amount: dec("20")}},
			wantIDs:   []int64{9},
			wantTotal: "20",
			wantNet:   "330",
		},
		{
			name:        "clamped edit is reported",
			edits:       []payroll.DeductionEdit{{AdvanceID: 11, Amount: dec("80")}, {AdvanceID: 9, Amount: dec("10")}},
			wantIDs:     []int64{9, 11},
			wantTotal:   "70",
			wantNet:     "280",
			wantClamped: []int64{11},
		},
		{
			name:    "duplicate advance",
			edits:   []payroll.DeductionEdit{{AdvanceID: 9, Amount: dec("10")}, {AdvanceID: 9, Amount: dec("20")}},
			wantErr: payrollerrors.ErrDuplicateDeduction,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := payroll.Calculate(twoAdvanceLedger(), 1, march(t)).Draft

			clamped, err := d.ApplyDeductions(tc.edits)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)

			var ids []int64
			for _, ded := range d.Deductions {
				ids = append(ids, ded.Advance.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
			assert.Equal(t, tc.wantTotal, d.TotalAdvancesDeducted.String())
			assert.Equal(t, tc.wantNet, d.NetPayment.String())

			var clampedIDs []int64
			for _, c := range clamped {
				clampedIDs = append(clampedIDs, c.AdvanceID)
			}
			assert.Equal(t, tc.wantClamped, clampedIDs)
		})
	}
}
