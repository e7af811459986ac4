package trip

import "time"

const (
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
)

type Trip struct {
	ID         int64     `gorm:"primaryKey"`
	DriverID   int64     `gorm:"not null;index:idx_trips_driver_date,priority:1"`
	RouteID    int64     `gorm:"not null;index"`
	Date       time.Time `gorm:"type:date;not null;index:idx_trips_driver_date,priority:2"`
	Time       string    `gorm:"type:varchar(5)"`
	Trips      int       `gorm:"not null;default:1"`
	LoadNumber string    `gorm:"type:varchar(50)"`
	Status     string    `gorm:"type:varchar(20);not null;default:assigned"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TripRow is a trip joined with the names shown in listings. Route names
// resolve through soft-deleted routes as well.
type TripRow struct {
	Trip
	DriverName string
	RouteName  string
}

// Filter narrows trip listings. Zero values mean no constraint.
type Filter struct {
	DriverID  int64
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}
