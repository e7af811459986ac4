package payroll

import (
	"sort"

	"go-fleetpay/internal/advance"

	"github.com/shopspring/decimal"
)

// Deduction is the part of one advance recovered by a payroll.
type Deduction struct {
	Advance        advance.Advance
	DeductedAmount decimal.Decimal
}

// AllocateAdvances covers pool with the driver's outstanding advances,
// oldest first. Advances dated the same day keep their input order.
func AllocateAdvances(pool decimal.Decimal, driverID int64, advances []advance.Advance) ([]Deduction, decimal.Decimal) {
	total := decimal.Zero
	if !pool.IsPositive() {
		return nil, total
	}

	outstanding := make([]advance.Advance, 0, len(advances))
	for _, a := range advances {
		if a.DriverID == driverID && a.RemainingAmount.IsPositive() {
			outstanding = append(outstanding, a)
		}
	}
	sort.SliceStable(outstanding, func(i, j int) bool {
		return outstanding[i].Date.Before(outstanding[j].Date)
	})

	var deductions []Deduction
	for _, a := range outstanding {
		if !pool.IsPositive() {
			break
		}
		deduct := decimal.Min(pool, a.RemainingAmount)
		deductions = append(deductions, Deduction{Advance: a, DeductedAmount: deduct})
		pool = pool.Sub(deduct)
		total = total.Add(deduct)
	}
	return deductions, total
}
