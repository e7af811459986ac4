package route

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Route struct {
	ID         int64           `gorm:"primaryKey"`
	Name       string          `gorm:"type:varchar(150);not null"`
	AlessiCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"` // billed to the client per trip
	DriverPay  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"` // paid to the driver per trip
	Duration   string          `gorm:"type:varchar(50)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}
