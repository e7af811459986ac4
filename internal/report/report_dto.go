package report

import "github.com/shopspring/decimal"

type DriverReportRequest struct {
	DriverID  int64
	StartDate string
	EndDate   string
}

type StatisticsRequest struct {
	StartDate string
	EndDate   string
}

type ReportTripResponse struct {
	TripID        int64           `json:"trip_id"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	RouteID       int64           `json:"route_id"`
	RouteName     string          `json:"route_name"`
	LoadNumber    string          `json:"load_number"`
	Trips         int             `json:"trips"`
	CostPerTrip   decimal.Decimal `json:"cost_per_trip"`
	Total         decimal.Decimal `json:"total"`
	IsPaid        bool            `json:"is_paid"`
	PaidPayrollID *int64          `json:"paid_payroll_id"`
}

type DriverReportResponse struct {
	DriverID           int64                `json:"driver_id"`
	DriverName         string               `json:"driver_name"`
	Status             string               `json:"status"`
	TotalTrips         int                  `json:"total_trips"`
	TotalPayment       decimal.Decimal      `json:"total_payment"`
	TotalPaidTrips     int                  `json:"total_paid_trips"`
	TotalPaidPayment   decimal.Decimal      `json:"total_paid_payment"`
	TotalUnpaidTrips   int                  `json:"total_unpaid_trips"`
	TotalUnpaidPayment decimal.Decimal      `json:"total_unpaid_payment"`
	Trips              []ReportTripResponse `json:"trips"`
}

type DriverRevenueResponse struct {
	DriverID   int64           `json:"driver_id"`
	DriverName string          `json:"driver_name"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type RouteUsageDetailResponse struct {
	TripID        int64           `json:"trip_id"`
	DriverID      int64           `json:"driver_id"`
	DriverName    string          `json:"driver_name"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Trips         int             `json:"trips"`
	TotalValue    decimal.Decimal `json:"total_value"`
	IsPaid        bool            `json:"is_paid"`
	PaidPayrollID *int64          `json:"paid_payroll_id"`
}

type RouteUsageResponse struct {
	RouteID    int64                      `json:"route_id"`
	RouteName  string                     `json:"route_name"`
	TotalTrips int                        `json:"total_trips"`
	Details    []RouteUsageDetailResponse `json:"details"`
}

type DailyShipmentResponse struct {
	Date  string `json:"date"`
	Trips int    `json:"trips"`
}

type StatisticsResponse struct {
	DriverRevenue  []DriverRevenueResponse `json:"driver_revenue"`
	RouteUsage     []RouteUsageResponse    `json:"route_usage"`
	DailyShipments []DailyShipmentResponse `json:"daily_shipments"`
}
