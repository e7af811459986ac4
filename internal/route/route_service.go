package route

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	routeerrors "go-fleetpay/internal/route/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	RouteAllKey   = "routes:all"
	routeCacheTTL = 30 * time.Minute
)

//go:generate mockgen -source=route_service.go -destination=mock/route_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateRouteRequest) (RouteResponse, error)
	GetAll(ctx context.Context) ([]RouteResponse, error)
	GetByID(ctx context.Context, id int64) (RouteResponse, error)
	Update(ctx context.Context, id int64, req UpdateRouteRequest) (RouteResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("route.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("route.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateRouteRequest) (RouteResponse, error) {
	if req.AlessiCost.IsNegative() || req.DriverPay.IsNegative() {
		return RouteResponse{}, routeerrors.ErrNegativeAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RouteResponse{}, err
	}
	defer tx.Rollback()

	rt := &Route{
		Name:       req.Name,
		AlessiCost: req.AlessiCost,
		DriverPay:  req.DriverPay,
		Duration:   req.Duration,
	}
	if err := s.repo.WithTx(tx).Create(ctx, rt); err != nil {
		s.logger.Error("create route persist failed", zap.Error(err))
		return RouteResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RouteResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("route created", zap.Int64("route_id", rt.ID), zap.String("name", rt.Name))

	return ToResponse(*rt), nil
}

func (s *service) GetAll(ctx context.Context) ([]RouteResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, RouteAllKey).Result(); err == nil {
			var resp []RouteResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(RouteAllKey, func() (interface{}, error) {
		routes, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(routes)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, RouteAllKey, jsonData, routeCacheTTL).Err(); err != nil {
					s.logger.Warn("cache route list failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]RouteResponse), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (RouteResponse, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RouteResponse{}, mapRepositoryError(err)
	}
	return ToResponse(*rt), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRouteRequest) (RouteResponse, error) {
	if req.AlessiCost.IsNegative() || req.DriverPay.IsNegative() {
		return RouteResponse{}, routeerrors.ErrNegativeAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RouteResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return RouteResponse{}, mapRepositoryError(err)
	}

	rt.Name = req.Name
	rt.AlessiCost = req.AlessiCost
	rt.DriverPay = req.DriverPay
	rt.Duration = req.Duration

	if err := qtx.Update(ctx, rt); err != nil {
		s.logger.Error("update route persist failed", zap.Int64("route_id", id), zap.Error(err))
		return RouteResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RouteResponse{}, err
	}

	s.invalidateCache(ctx)
	return ToResponse(*rt), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("route deleted", zap.Int64("route_id", id))
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, RouteAllKey).Err(); err != nil {
		s.logger.Error("failed to invalidate route cache", zap.String("key", RouteAllKey), zap.Error(err))
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return routeerrors.ErrRouteNotFound
	}
	return err
}

func ToResponse(rt Route) RouteResponse {
	return RouteResponse{
		ID:         rt.ID,
		Name:       rt.Name,
		AlessiCost: rt.AlessiCost,
		DriverPay:  rt.DriverPay,
		Duration:   rt.Duration,
	}
}

func mapToListResponse(routes []Route) []RouteResponse {
	resp := make([]RouteResponse, len(routes))
	for i, rt := range routes {
		resp[i] = ToResponse(rt)
	}
	return resp
}
