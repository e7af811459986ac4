package advance

import "github.com/shopspring/decimal"

type CreateAdvanceRequest struct {
	DriverID    int64           `json:"driver_id" binding:"required,gt=0"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount"`
}

type GetAdvancesFilterRequest struct {
	DriverID        int64
	StartDate       string
	EndDate         string
	OutstandingOnly bool
}

type AdvanceResponse struct {
	ID              int64           `json:"id"`
	DriverID        int64           `json:"driver_id"`
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

type AdvanceListResponse struct {
	Items       []AdvanceResponse `json:"items"`
	Outstanding decimal.Decimal   `json:"outstanding"`
}
