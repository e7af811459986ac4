package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is a cash advance repaid through payroll deductions.
// PaidAmount + RemainingAmount always equals Amount.
type Advance struct {
	ID              int64           `gorm:"primaryKey"`
	DriverID        int64           `gorm:"not null;index:idx_advances_driver_date,priority:1"`
	Date            time.Time       `gorm:"type:date;not null;index:idx_advances_driver_date,priority:2"`
	Description     string          `gorm:"type:varchar(255)"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_advances_remaining,remaining_amount >= 0"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

// Capacity is how much may still be deducted, re-derived from the amounts.
func (a Advance) Capacity() decimal.Decimal {
	c := a.Amount.Sub(a.PaidAmount)
	if c.IsNegative() {
		return decimal.Zero
	}
	return c
}

type Filter struct {
	DriverID        int64
	StartDate       *time.Time
	EndDate         *time.Time
	OutstandingOnly bool
}
