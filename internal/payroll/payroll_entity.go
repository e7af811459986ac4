package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payroll is the settled, immutable record of one driver payment.
type Payroll struct {
	ID                    int64           `gorm:"primaryKey"`
	PayrollNumber         int64           `gorm:"not null;uniqueIndex:uq_payroll_number"`
	EmissionDate          time.Time       `gorm:"type:date;not null"`
	DriverID              int64           `gorm:"not null;index"`
	DriverName            string          `gorm:"type:varchar(150);not null"`
	StartDate             time.Time       `gorm:"type:date;not null"`
	EndDate               time.Time       `gorm:"type:date;not null"`
	TotalGrossPayment     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalExpenses         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAdvancesDeducted decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalNetPayment       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SettledBy             int64
	CreatedAt             time.Time `gorm:"autoCreateTime"`

	Details                 []TripDetail             `gorm:"foreignKey:PayrollID"`
	ExpenseDetails          []ExpenseDetail          `gorm:"foreignKey:PayrollID"`
	AdvanceDeductionDetails []AdvanceDeductionDetail `gorm:"foreignKey:PayrollID"`
}

// TripDetail snapshots a paid trip with the route pay in force at
// settlement. The unique trip_id index is the paid-trip index.
type TripDetail struct {
	ID          int64           `gorm:"primaryKey"`
	PayrollID   int64           `gorm:"not null;index"`
	TripID      int64           `gorm:"not null;uniqueIndex:uq_payroll_trip"`
	Date        time.Time       `gorm:"type:date;not null"`
	Time        string          `gorm:"type:varchar(5)"`
	RouteID     int64           `gorm:"not null"`
	RouteName   string          `gorm:"type:varchar(150)"`
	LoadNumber  string          `gorm:"type:varchar(50)"`
	Trips       int             `gorm:"not null"`
	CostPerTrip decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (TripDetail) TableName() string {
	return "payroll_trip_details"
}

type ExpenseDetail struct {
	ID          int64           `gorm:"primaryKey"`
	PayrollID   int64           `gorm:"not null;index"`
	ExpenseID   int64           `gorm:"not null;uniqueIndex:uq_payroll_expense"`
	Date        time.Time       `gorm:"type:date;not null"`
	Description string          `gorm:"type:varchar(255)"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (ExpenseDetail) TableName() string {
	return "payroll_expense_details"
}

// AdvanceDeductionDetail snapshots an advance as it stood before the
// deduction was applied.
type AdvanceDeductionDetail struct {
	ID              int64           `gorm:"primaryKey"`
	PayrollID       int64           `gorm:"not null;index"`
	AdvanceID       int64           `gorm:"not null;index"`
	Date            time.Time       `gorm:"type:date;not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DeductedAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (AdvanceDeductionDetail) TableName() string {
	return "payroll_advance_deductions"
}

// Filter narrows payroll listings by driver and emission date.
type Filter struct {
	DriverID  int64
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// DriverTotal is the amount paid to one driver across all payrolls.
type DriverTotal struct {
	DriverID        int64
	DriverName      string
	PayrollCount    int64
	TotalNetPayment decimal.Decimal
}
