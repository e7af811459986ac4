package trip

type CreateTripRequest struct {
	DriverID   int64  `json:"driver_id" binding:"required,gt=0"`
	RouteID    int64  `json:"route_id" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	Time       string `json:"time" binding:"omitempty,datetime=15:04"`
	Trips      int    `json:"trips" binding:"omitempty,gte=1"`
	LoadNumber string `json:"load_number" binding:"max=50"`
}

type UpdateTripRequest struct {
	DriverID   int64  `json:"driver_id" binding:"required,gt=0"`
	RouteID    int64  `json:"route_id" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	Time       string `json:"time" binding:"omitempty,datetime=15:04"`
	Trips      int    `json:"trips" binding:"required,gte=1"`
	LoadNumber string `json:"load_number" binding:"max=50"`
}

type GetTripsFilterRequest struct {
	DriverID  int64
	StartDate string
	EndDate   string
	Status    string
}

type TripResponse struct {
	ID            int64  `json:"id"`
	DriverID      int64  `json:"driver_id"`
	DriverName    string `json:"driver_name,omitempty"`
	RouteID       int64  `json:"route_id"`
	RouteName     string `json:"route_name,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Trips         int    `json:"trips"`
	LoadNumber    string `json:"load_number"`
	Status        string `json:"status"`
	IsPaid        bool   `json:"is_paid"`
	PaidPayrollID *int64 `json:"paid_payroll_id"`
}

type CalendarDay struct {
	Date      string         `json:"date"`
	TripCount int            `json:"trip_count"`
	Entries   []TripResponse `json:"entries"`
}
