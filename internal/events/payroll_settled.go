package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PayrollSettledTopic     = "fleet.payroll.settled.v1"
	PayrollSettledEventType = "payroll_settled"
)

type PayrollSettledEvent struct {
	EventType       string          `json:"event_type"`
	RequestID       string          `json:"request_id,omitempty"`
	PayrollID       int64           `json:"payroll_id"`
	PayrollNumber   int64           `json:"payroll_number"`
	DriverID        int64           `json:"driver_id"`
	TotalNetPayment decimal.Decimal `json:"total_net_payment"`
	SettledBy       int64           `json:"settled_by"`
	OccurredAt      time.Time       `json:"occurred_at"`
}
