package payroll

import (
	"sort"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/expense"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/trip"

	"github.com/shopspring/decimal"
)

const (
	ReasonReady        = "READY"
	ReasonNothingToPay = "NOTHING_TO_PAY"
)

// Ledger is the slice of stored state a calculation or settlement reads.
type Ledger struct {
	Routes   map[int64]route.Route
	Trips    []trip.Trip
	Expenses []expense.Expense
	Advances []advance.Advance
	Paid     PaidTripIndex
}

// Draft is an unsettled payroll proposal. Only advance deductions may be
// edited, and every edit recomputes the totals.
type Draft struct {
	DriverID              int64
	Period                Period
	Trips                 []trip.Trip
	Expenses              []expense.Expense
	Deductions            []Deduction
	GrossPayment          decimal.Decimal
	TotalExpenses         decimal.Decimal
	TotalAdvancesDeducted decimal.Decimal
	NetPayment            decimal.Decimal
	// UnresolvedRouteIDs lists route ids of draft trips that did not
	// resolve and therefore paid zero.
	UnresolvedRouteIDs []int64

	advances []advance.Advance
}

type DraftResult struct {
	Draft  *Draft
	Reason string
}

// TripPay is route.DriverPay times the trip count. Trips whose route cannot
// be resolved pay zero.
func TripPay(routes map[int64]route.Route, t trip.Trip) decimal.Decimal {
	r, ok := routes[t.RouteID]
	if !ok {
		return decimal.Zero
	}
	return r.DriverPay.Mul(decimal.NewFromInt(int64(t.Trips)))
}

// Calculate drafts the payroll of driverID over p. A nil Draft with
// ReasonNothingToPay means there is nothing to settle.
func Calculate(l Ledger, driverID int64, p Period) DraftResult {
	d := newDraft(l, driverID, p,
		UnpaidTrips(l.Trips, driverID, p, l.Paid),
		UnpaidExpenses(l.Expenses, driverID, p),
	)
	d.allocate()

	if d.empty() {
		return DraftResult{Reason: ReasonNothingToPay}
	}
	return DraftResult{Draft: d, Reason: ReasonReady}
}

func newDraft(l Ledger, driverID int64, p Period, trips []trip.Trip, expenses []expense.Expense) *Draft {
	d := &Draft{
		DriverID:      driverID,
		Period:        p,
		Trips:         trips,
		Expenses:      expenses,
		GrossPayment:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	unresolved := make(map[int64]bool)
	for _, t := range trips {
		if _, ok := l.Routes[t.RouteID]; !ok && !unresolved[t.RouteID] {
			unresolved[t.RouteID] = true
			d.UnresolvedRouteIDs = append(d.UnresolvedRouteIDs, t.RouteID)
		}
		d.GrossPayment = d.GrossPayment.Add(TripPay(l.Routes, t))
	}
	for _, e := range expenses {
		d.TotalExpenses = d.TotalExpenses.Add(e.Amount)
	}
	for _, a := range l.Advances {
		if a.DriverID == driverID {
			d.advances = append(d.advances, a)
		}
	}
	return d
}

// ApplyDeductions sets the draft's advance deductions. Nil edits keep the
// oldest-first allocation. A non-nil slice is the complete set: advances it
// does not name are not deducted.
func (d *Draft) ApplyDeductions(edits []DeductionEdit) ([]ClampedDeduction, error) {
	if edits == nil {
		d.allocate()
		return nil, nil
	}

	d.Deductions = nil
	var clamped []ClampedDeduction
	seen := make(map[int64]bool, len(edits))
	for _, edit := range edits {
		if seen[edit.AdvanceID] {
			return nil, payrollerrors.ErrDuplicateDeduction
		}
		seen[edit.AdvanceID] = true

		applied, wasClamped, err := d.EditDeduction(edit.AdvanceID, edit.Amount)
		if err != nil {
			return nil, err
		}
		if wasClamped {
			clamped = append(clamped, ClampedDeduction{AdvanceID: edit.AdvanceID, Requested: edit.Amount, Applied: applied})
		}
	}
	d.recompute()
	return clamped, nil
}

// EditDeduction sets the amount recovered from one of the driver's
// advances. The amount is clamped to [0, amount - paid] of the stored
// advance; clamped reports whether that happened. A zero amount drops the
// deduction.
func (d *Draft) EditDeduction(advanceID int64, amount decimal.Decimal) (applied decimal.Decimal, clamped bool, err error) {
	var target *advance.Advance
	for i := range d.advances {
		if d.advances[i].ID == advanceID {
			target = &d.advances[i]
			break
		}
	}
	if target == nil {
		return decimal.Zero, false, payrollerrors.ErrUnknownAdvance
	}

	applied = amount.Round(2)
	if applied.IsNegative() {
		applied, clamped = decimal.Zero, true
	}
	if capacity := target.Capacity(); applied.GreaterThan(capacity) {
		applied, clamped = capacity, true
	}

	kept := d.Deductions[:0]
	for _, ded := range d.Deductions {
		if ded.Advance.ID != advanceID {
			kept = append(kept, ded)
		}
	}
	d.Deductions = kept
	if applied.IsPositive() {
		d.Deductions = append(d.Deductions, Deduction{Advance: *target, DeductedAmount: applied})
		sort.SliceStable(d.Deductions, func(i, j int) bool {
			return d.Deductions[i].Advance.Date.Before(d.Deductions[j].Advance.Date)
		})
	}

	d.recompute()
	return applied, clamped, nil
}

func (d *Draft) allocate() {
	d.Deductions, _ = AllocateAdvances(d.GrossPayment, d.DriverID, d.advances)
	d.recompute()
}

func (d *Draft) recompute() {
	d.TotalAdvancesDeducted = decimal.Zero
	for _, ded := range d.Deductions {
		d.TotalAdvancesDeducted = d.TotalAdvancesDeducted.Add(ded.DeductedAmount)
	}
	d.NetPayment = d.GrossPayment.Sub(d.TotalExpenses).Sub(d.TotalAdvancesDeducted)
}

func (d *Draft) empty() bool {
	return len(d.Trips) == 0 && len(d.Expenses) == 0 && d.TotalAdvancesDeducted.IsZero()
}
