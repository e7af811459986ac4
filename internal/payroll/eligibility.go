package payroll

import (
	"time"

	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/trip"
)

// PaidTripIndex maps a trip id to the id of the payroll that paid it.
type PaidTripIndex map[int64]int64

func (ix PaidTripIndex) IsPaid(tripID int64) bool {
	_, ok := ix[tripID]
	return ok
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end string) (Period, error) {
	s, err := request.ParseDate(start)
	if err != nil {
		return Period{}, err
	}
	e, err := request.ParseDate(end)
	if err != nil {
		return Period{}, err
	}
	if s.After(e) {
		return Period{}, request.ErrInvalidDateRange
	}
	return Period{Start: s, End: e}, nil
}

// Contains compares calendar days only.
func (p Period) Contains(d time.Time) bool {
	day := d.Format(request.DateLayout)
	return day >= p.Start.Format(request.DateLayout) && day <= p.End.Format(request.DateLayout)
}

// UnpaidTrips returns the driver's trips inside p that no payroll has paid.
func UnpaidTrips(trips []trip.Trip, driverID int64, p Period, paid PaidTripIndex) []trip.Trip {
	out := make([]trip.Trip, 0, len(trips))
	for _, t := range trips {
		if t.DriverID != driverID || !p.Contains(t.Date) || paid.IsPaid(t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func UnpaidExpenses(expenses []expense.Expense, driverID int64, p Period) []expense.Expense {
	out := make([]expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.DriverID != driverID || e.IsPaid || !p.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out
}
