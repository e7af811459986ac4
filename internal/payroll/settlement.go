package payroll

import (
	"time"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/expense"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/trip"

	"github.com/shopspring/decimal"
)

type DeductionEdit struct {
	AdvanceID int64
	Amount    decimal.Decimal
}

type SettleInput struct {
	DriverID   int64
	DriverName string
	Period     Period
	TripIDs    []int64
	ExpenseIDs []int64
	// Nil Deductions re-runs the allocator; a non-nil slice is the complete
	// set of deductions, as in Draft.ApplyDeductions.
	Deductions    []DeductionEdit
	PayrollNumber int64
	EmissionDate  time.Time
	SettledBy     int64
}

type ClampedDeduction struct {
	AdvanceID int64
	Requested decimal.Decimal
	Applied   decimal.Decimal
}

// Settlement is everything a confirmed draft changes. The caller persists
// it as one unit.
type Settlement struct {
	Payroll            Payroll
	UpdatedExpenses    []expense.Expense
	UpdatedAdvances    []advance.Advance
	Clamped            []ClampedDeduction
	UnresolvedRouteIDs []int64
}

// Settle re-validates a draft against l and produces the payroll record.
// Trip pay is resolved from l.Routes, never from the draft.
func Settle(l Ledger, in SettleInput) (*Settlement, error) {
	trips, err := selectTrips(l, in)
	if err != nil {
		return nil, err
	}
	expenses, err := selectExpenses(l, in)
	if err != nil {
		return nil, err
	}

	d := newDraft(l, in.DriverID, in.Period, trips, expenses)
	clamped, err := d.ApplyDeductions(in.Deductions)
	if err != nil {
		return nil, err
	}

	if d.empty() {
		return nil, payrollerrors.ErrNothingToPay
	}

	s := &Settlement{
		Payroll: Payroll{
			PayrollNumber:         in.PayrollNumber,
			EmissionDate:          in.EmissionDate,
			DriverID:              in.DriverID,
			DriverName:            in.DriverName,
			StartDate:             in.Period.Start,
			EndDate:               in.Period.End,
			TotalGrossPayment:     d.GrossPayment,
			TotalExpenses:         d.TotalExpenses,
			TotalAdvancesDeducted: d.TotalAdvancesDeducted,
			TotalNetPayment:       d.NetPayment,
			SettledBy:             in.SettledBy,
		},
		Clamped:            clamped,
		UnresolvedRouteIDs: d.UnresolvedRouteIDs,
	}

	for _, t := range d.Trips {
		detail := TripDetail{
			TripID:      t.ID,
			Date:        t.Date,
			Time:        t.Time,
			RouteID:     t.RouteID,
			LoadNumber:  t.LoadNumber,
			Trips:       t.Trips,
			CostPerTrip: decimal.Zero,
			Total:       TripPay(l.Routes, t),
		}
		if r, ok := l.Routes[t.RouteID]; ok {
			detail.RouteName = r.Name
			detail.CostPerTrip = r.DriverPay
		}
		s.Payroll.Details = append(s.Payroll.Details, detail)
	}

	number := in.PayrollNumber
	for _, e := range d.Expenses {
		s.Payroll.ExpenseDetails = append(s.Payroll.ExpenseDetails, ExpenseDetail{
			ExpenseID:   e.ID,
			Date:        e.Date,
			Description: e.Description,
			Amount:      e.Amount,
		})
		e.IsPaid = true
		e.PayrollNumber = &number
		s.UpdatedExpenses = append(s.UpdatedExpenses, e)
	}

	for _, ded := range d.Deductions {
		a := ded.Advance
		s.Payroll.AdvanceDeductionDetails = append(s.Payroll.AdvanceDeductionDetails, AdvanceDeductionDetail{
			AdvanceID:       a.ID,
			Date:            a.Date,
			Amount:          a.Amount,
			PaidAmount:      a.PaidAmount,
			RemainingAmount: a.RemainingAmount,
			DeductedAmount:  ded.DeductedAmount,
		})
		a.PaidAmount = a.PaidAmount.Add(ded.DeductedAmount)
		a.RemainingAmount = a.RemainingAmount.Sub(ded.DeductedAmount)
		s.UpdatedAdvances = append(s.UpdatedAdvances, a)
	}

	return s, nil
}

func selectTrips(l Ledger, in SettleInput) ([]trip.Trip, error) {
	byID := make(map[int64]trip.Trip, len(l.Trips))
	for _, t := range l.Trips {
		byID[t.ID] = t
	}

	out := make([]trip.Trip, 0, len(in.TripIDs))
	seen := make(map[int64]bool, len(in.TripIDs))
	for _, id := range in.TripIDs {
		t, ok := byID[id]
		if !ok || seen[id] || t.DriverID != in.DriverID || !in.Period.Contains(t.Date) {
			return nil, payrollerrors.ErrIneligibleTrip
		}
		if l.Paid.IsPaid(id) {
			return nil, payrollerrors.ErrStaleDraft
		}
		seen[id] = true
		out = append(out, t)
	}
	return out, nil
}

func selectExpenses(l Ledger, in SettleInput) ([]expense.Expense, error) {
	byID := make(map[int64]expense.Expense, len(l.Expenses))
	for _, e := range l.Expenses {
		byID[e.ID] = e
	}

	out := make([]expense.Expense, 0, len(in.ExpenseIDs))
	seen := make(map[int64]bool, len(in.ExpenseIDs))
	for _, id := range in.ExpenseIDs {
		e, ok := byID[id]
		if !ok || seen[id] || e.DriverID != in.DriverID || !in.Period.Contains(e.Date) {
			return nil, payrollerrors.ErrIneligibleExpense
		}
		if e.IsPaid {
			return nil, payrollerrors.ErrStaleDraft
		}
		seen[id] = true
		out = append(out, e)
	}
	return out, nil
}
