package ledger

import (
	"context"
	"errors"

	"go-fleetpay/internal/payroll"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	// GetMeta reports found=false when key was never written.
	GetMeta(ctx context.Context, key string) (value string, found bool, err error)
	PutMeta(ctx context.Context, key, value string) error
	LoadCollections(ctx context.Context) (Collections, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var m Meta
	err := r.db.WithContext(ctx).Where("key = ?", key).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}

func (r *repository) PutMeta(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&Meta{Key: key, Value: value}).Error
}

func (r *repository) LoadCollections(ctx context.Context) (Collections, error) {
	var c Collections
	db := r.db.WithContext(ctx)

	if err := db.Order("id").Find(&c.Drivers).Error; err != nil {
		return Collections{}, err
	}
	if err := db.Order("id").Find(&c.Routes).Error; err != nil {
		return Collections{}, err
	}
	if err := db.Table("trips").
		Select("trips.*, drivers.name AS driver_name, routes.name AS route_name").
		Joins("LEFT JOIN drivers ON drivers.id = trips.driver_id").
		Joins("LEFT JOIN routes ON routes.id = trips.route_id").
		Order("trips.id").
		Scan(&c.Trips).Error; err != nil {
		return Collections{}, err
	}

	var paid []payroll.TripDetail
	if err := db.Select("trip_id", "payroll_id").Find(&paid).Error; err != nil {
		return Collections{}, err
	}
	c.Paid = make(map[int64]int64, len(paid))
	for _, d := range paid {
		c.Paid[d.TripID] = d.PayrollID
	}

	if err := db.Order("id").Find(&c.Expenses).Error; err != nil {
		return Collections{}, err
	}
	if err := db.Order("id").Find(&c.Advances).Error; err != nil {
		return Collections{}, err
	}
	if err := db.
		Preload("Details", func(tx *gorm.DB) *gorm.DB { return tx.Order("date, id") }).
		Preload("ExpenseDetails", func(tx *gorm.DB) *gorm.DB { return tx.Order("date, id") }).
		Preload("AdvanceDeductionDetails", func(tx *gorm.DB) *gorm.DB { return tx.Order("date, id") }).
		Order("payroll_number").
		Find(&c.Payrolls).Error; err != nil {
		return Collections{}, err
	}
	if err := db.Order("id").Find(&c.Users).Error; err != nil {
		return Collections{}, err
	}
	return c, nil
}

