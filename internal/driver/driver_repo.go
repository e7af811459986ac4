package driver

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=driver_repo.go -destination=mock/driver_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Driver) error
	FindAll(ctx context.Context, status string) ([]Driver, error)
	FindByID(ctx context.Context, id int64) (*Driver, error)
	Update(ctx context.Context, d *Driver) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, d *Driver) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Driver, error) {
	var drivers []Driver
	q := r.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&drivers).Error
	return drivers, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Driver, error) {
	var d Driver
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Update(ctx context.Context, d *Driver) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Driver{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
