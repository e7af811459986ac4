package payroll

import "github.com/shopspring/decimal"

type DraftRequest struct {
	DriverID  int64  `json:"driver_id" binding:"required,gt=0"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type DeductionEditRequest struct {
	AdvanceID      int64           `json:"advance_id" binding:"required,gt=0"`
	DeductedAmount decimal.Decimal `json:"deducted_amount"`
}

// EditDeductionsRequest reads advance_deductions the same way SettleRequest
// does, so settling with the previewed list commits the previewed totals.
type EditDeductionsRequest struct {
	DraftRequest
	AdvanceDeductions []DeductionEditRequest `json:"advance_deductions" binding:"dive"`
}

// SettleRequest omitting advance_deductions lets the allocator decide; an
// empty list settles without recovering any advance.
type SettleRequest struct {
	DriverID          int64                  `json:"driver_id" binding:"required,gt=0"`
	StartDate         string                 `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate           string                 `json:"end_date" binding:"required,datetime=2006-01-02"`
	TripIDs           []int64                `json:"trip_ids"`
	ExpenseIDs        []int64                `json:"expense_ids"`
	AdvanceDeductions []DeductionEditRequest `json:"advance_deductions" binding:"omitempty,dive"`
}

type GetPayrollsFilterRequest struct {
	DriverID  int64
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

type DraftTripResponse struct {
	TripID      int64           `json:"trip_id"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	RouteID     int64           `json:"route_id"`
	RouteName   string          `json:"route_name"`
	LoadNumber  string          `json:"load_number"`
	Trips       int             `json:"trips"`
	CostPerTrip decimal.Decimal `json:"cost_per_trip"`
	Total       decimal.Decimal `json:"total"`
}

type ExpenseLineResponse struct {
	ExpenseID   int64           `json:"expense_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type DeductionResponse struct {
	AdvanceID       int64           `json:"advance_id"`
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DeductedAmount  decimal.Decimal `json:"deducted_amount"`
	Clamped         bool            `json:"clamped,omitempty"`
}

type DraftResponse struct {
	DriverID              int64                 `json:"driver_id"`
	StartDate             string                `json:"start_date"`
	EndDate               string                `json:"end_date"`
	Trips                 []DraftTripResponse   `json:"trips"`
	Expenses              []ExpenseLineResponse `json:"expenses"`
	AdvanceDeductions     []DeductionResponse   `json:"advance_deductions"`
	TotalGrossPayment     decimal.Decimal       `json:"total_gross_payment"`
	TotalExpenses         decimal.Decimal       `json:"total_expenses"`
	TotalAdvancesDeducted decimal.Decimal       `json:"total_advances_deducted"`
	TotalNetPayment       decimal.Decimal       `json:"total_net_payment"`
	UnresolvedRouteIDs    []int64               `json:"unresolved_route_ids"`
}

type DraftResultResponse struct {
	Reason string         `json:"reason"`
	Draft  *DraftResponse `json:"draft"`
}

type PayrollSummaryResponse struct {
	ID                    int64           `json:"id"`
	PayrollNumber         int64           `json:"payroll_number"`
	EmissionDate          string          `json:"emission_date"`
	DriverID              int64           `json:"driver_id"`
	DriverName            string          `json:"driver_name"`
	StartDate             string          `json:"start_date"`
	EndDate               string          `json:"end_date"`
	TotalGrossPayment     decimal.Decimal `json:"total_gross_payment"`
	TotalExpenses         decimal.Decimal `json:"total_expenses"`
	TotalAdvancesDeducted decimal.Decimal `json:"total_advances_deducted"`
	TotalNetPayment       decimal.Decimal `json:"total_net_payment"`
}

type PayrollResponse struct {
	PayrollSummaryResponse
	Details                 []DraftTripResponse   `json:"details"`
	ExpenseDetails          []ExpenseLineResponse `json:"expense_details"`
	AdvanceDeductionDetails []DeductionResponse   `json:"advance_deduction_details"`
}

type ClampedDeductionResponse struct {
	AdvanceID int64           `json:"advance_id"`
	Requested decimal.Decimal `json:"requested"`
	Applied   decimal.Decimal `json:"applied"`
}

type SettleResponse struct {
	Payroll            PayrollResponse            `json:"payroll"`
	Clamped            []ClampedDeductionResponse `json:"clamped"`
	UnresolvedRouteIDs []int64                    `json:"unresolved_route_ids"`
}

type DriverTotalResponse struct {
	DriverID        int64           `json:"driver_id"`
	DriverName      string          `json:"driver_name"`
	PayrollCount    int64           `json:"payroll_count"`
	TotalNetPayment decimal.Decimal `json:"total_net_payment"`
}

type TotalsResponse struct {
	Drivers []DriverTotalResponse `json:"drivers"`
	Overall decimal.Decimal       `json:"overall"`
}
