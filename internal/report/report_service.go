package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/request"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatisticsVersionKey = "stats:version"
	statisticsCacheTTL   = 10 * time.Minute
)

func StatisticsCacheKey(version, start, end string) string {
	return fmt.Sprintf("stats:v%s:%s:%s", version, start, end)
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	DriverReport(ctx context.Context, req DriverReportRequest) ([]DriverReportResponse, error)
	Statistics(ctx context.Context, req StatisticsRequest) (StatisticsResponse, error)
	// Invalidate retires every cached statistics entry.
	Invalidate(ctx context.Context) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) DriverReport(ctx context.Context, req DriverReportRequest) ([]DriverReportResponse, error) {
	start, end, err := request.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	drivers, err := s.repo.Drivers(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.TripLines(ctx, LineFilter{DriverID: req.DriverID, StartDate: start, EndDate: end})
	if err != nil {
		return nil, err
	}

	return BuildDriverReports(drivers, lines), nil
}

func (s *service) Statistics(ctx context.Context, req StatisticsRequest) (StatisticsResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	start, end, err := request.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return StatisticsResponse{}, err
	}

	key := StatisticsCacheKey(s.cacheVersion(ctx), req.StartDate, req.EndDate)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp StatisticsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		lines, err := s.repo.TripLines(ctx, LineFilter{StartDate: start, EndDate: end})
		if err != nil {
			return nil, err
		}

		resp := BuildStatistics(lines)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, key, jsonData, statisticsCacheTTL).Err(); err != nil {
					log.Warn("cache statistics failed", zap.String("key", key), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return StatisticsResponse{}, err
	}

	return v.(StatisticsResponse), nil
}

func (s *service) Invalidate(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Incr(ctx, StatisticsVersionKey).Err()
}

func (s *service) cacheVersion(ctx context.Context) string {
	if s.rdb == nil {
		return "0"
	}
	v, err := s.rdb.Get(ctx, StatisticsVersionKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("read statistics cache version failed", zap.Error(err))
		}
		return "0"
	}
	return v
}
