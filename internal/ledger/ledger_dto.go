package ledger

import (
	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/payroll"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/trip"
	"go-fleetpay/internal/user"
)

// SnapshotResponse maps every collection from id to record.
type SnapshotResponse struct {
	SchemaVersion int                               `json:"schema_version"`
	Drivers       map[int64]driver.DriverResponse   `json:"drivers"`
	Routes        map[int64]route.RouteResponse     `json:"routes"`
	Trips         map[int64]trip.TripResponse       `json:"trips"`
	Expenses      map[int64]expense.ExpenseResponse `json:"expenses"`
	Advances      map[int64]advance.AdvanceResponse `json:"advances"`
	Payrolls      map[int64]payroll.PayrollResponse `json:"payrolls"`
	Users         map[int64]user.UserResponse       `json:"users"`
}
