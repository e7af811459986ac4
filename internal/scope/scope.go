package scope

import (
	"time"

	"gorm.io/gorm"
)

// Driver restricts a query to one driver. A zero id leaves the query as is.
func Driver(driverID int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if driverID == 0 {
			return db
		}
		return db.Where("driver_id = ?", driverID)
	}
}

// DateBetween applies an inclusive range on a date column. Nil bounds are
// open.
func DateBetween(column string, start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(column+" >= ?", start.Format("2006-01-02"))
		}
		if end != nil {
			db = db.Where(column+" <= ?", end.Format("2006-01-02"))
		}
		return db
	}
}

func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
