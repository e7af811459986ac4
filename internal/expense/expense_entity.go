package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            int64           `gorm:"primaryKey"`
	DriverID      int64           `gorm:"not null;index:idx_expenses_driver_date,priority:1"`
	Date          time.Time       `gorm:"type:date;not null;index:idx_expenses_driver_date,priority:2"`
	Description   string          `gorm:"type:varchar(255)"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	IsPaid        bool            `gorm:"not null;default:false;index"`
	PayrollNumber *int64
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

type Filter struct {
	DriverID  int64
	StartDate *time.Time
	EndDate   *time.Time
	IsPaid    *bool
}
