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

const (
	// SchemaVersion is the layout this build reads and writes.
	SchemaVersion    = 1
	SchemaVersionKey = "schema_version"
)

// Meta is a key/value row of ledger-wide scalars.
type Meta struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value string `gorm:"type:varchar(255);not null"`
}

func (Meta) TableName() string {
	return "ledger_meta"
}

// Collections is the whole ledger as stored.
type Collections struct {
	Drivers  []driver.Driver
	Routes   []route.Route
	Trips    []trip.TripRow
	Paid     map[int64]int64
	Expenses []expense.Expense
	Advances []advance.Advance
	Payrolls []payroll.Payroll
	Users    []user.User
}
