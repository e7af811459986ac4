package driver

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Driver struct {
	ID        int64          `gorm:"primaryKey"`
	Name      string         `gorm:"type:varchar(150);not null"`
	License   string         `gorm:"type:varchar(50)"`
	Status    string         `gorm:"type:varchar(20);not null;default:active;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
