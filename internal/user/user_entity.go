package user

import "time"

type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;type:varchar(100);not null;uniqueIndex:uq_users_username"`
	Password  string    `gorm:"column:password;type:text;not null"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:driver"`
	DriverID  *int64    `gorm:"column:driver_id;index"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
