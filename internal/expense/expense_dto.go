package expense

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	DriverID    int64           `json:"driver_id" binding:"required,gt=0"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount"`
}

type GetExpensesFilterRequest struct {
	DriverID  int64
	StartDate string
	EndDate   string
	IsPaid    *bool
}

type ExpenseResponse struct {
	ID            int64           `json:"id"`
	DriverID      int64           `json:"driver_id"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	IsPaid        bool            `json:"is_paid"`
	PayrollNumber *int64          `json:"payroll_number"`
}

type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Total decimal.Decimal   `json:"total"`
}
