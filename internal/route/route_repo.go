package route

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=route_repo.go -destination=mock/route_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Route) error
	FindAll(ctx context.Context) ([]Route, error)
	FindByID(ctx context.Context, id int64) (*Route, error)
	Update(ctx context.Context, r *Route) error
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

func (r *repository) Create(ctx context.Context, rt *Route) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Route, error) {
	var routes []Route
	err := r.db.WithContext(ctx).Order("name ASC").Find(&routes).Error
	return routes, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Route, error) {
	var rt Route
	if err := r.db.WithContext(ctx).First(&rt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *repository) Update(ctx context.Context, rt *Route) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Route{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
