package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripLine is one scheduled trip joined with its driver, its route and the
// payroll that paid it, if any. Route and driver columns are null when the
// reference no longer resolves.
type TripLine struct {
	TripID        int64
	DriverID      int64
	DriverName    *string
	RouteID       int64
	RouteName     *string
	DriverPay     decimal.NullDecimal
	AlessiCost    decimal.NullDecimal
	Date          time.Time
	Time          string
	Trips         int
	LoadNumber    string
	PaidPayrollID *int64
}

func (l TripLine) IsPaid() bool {
	return l.PaidPayrollID != nil
}

func (l TripLine) RouteKnown() bool {
	return l.RouteName != nil
}

func (l TripLine) DriverKnown() bool {
	return l.DriverName != nil
}

// Count is the number of trips the line stands for; a stored zero counts
// as one.
func (l TripLine) Count() int {
	if l.Trips < 1 {
		return 1
	}
	return l.Trips
}

// Pay is driver_pay times the trip count, zero for an unknown route.
func (l TripLine) Pay() decimal.Decimal {
	if !l.DriverPay.Valid {
		return decimal.Zero
	}
	return l.DriverPay.Decimal.Mul(decimal.NewFromInt(int64(l.Count())))
}

// Revenue is alessi_cost times the trip count, zero for an unknown route.
func (l TripLine) Revenue() decimal.Decimal {
	if !l.AlessiCost.Valid {
		return decimal.Zero
	}
	return l.AlessiCost.Decimal.Mul(decimal.NewFromInt(int64(l.Count())))
}

type LineFilter struct {
	DriverID  int64
	StartDate *time.Time
	EndDate   *time.Time
}
