package route

import "github.com/shopspring/decimal"

type CreateRouteRequest struct {
	Name       string          `json:"name" binding:"required,max=150"`
	AlessiCost decimal.Decimal `json:"alessi_cost"`
	DriverPay  decimal.Decimal `json:"driver_pay"`
	Duration   string          `json:"duration" binding:"max=50"`
}

type UpdateRouteRequest struct {
	Name       string          `json:"name" binding:"required,max=150"`
	AlessiCost decimal.Decimal `json:"alessi_cost"`
	DriverPay  decimal.Decimal `json:"driver_pay"`
	Duration   string          `json:"duration" binding:"max=50"`
}

type RouteResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	AlessiCost decimal.Decimal `json:"alessi_cost"`
	DriverPay  decimal.Decimal `json:"driver_pay"`
	Duration   string          `json:"duration"`
}
