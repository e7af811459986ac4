package driver

import (
	"context"
	"database/sql"

	drivererrors "go-fleetpay/internal/driver/errors"
	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/user"

	"go.uber.org/zap"
)

//go:generate mockgen -source=driver_service.go -destination=mock/driver_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDriverRequest) (CreateDriverResponse, error)
	GetAll(ctx context.Context, status string) ([]DriverResponse, error)
	GetByID(ctx context.Context, id int64) (DriverResponse, error)
	Update(ctx context.Context, id int64, req UpdateDriverRequest) (DriverResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db              *sql.DB
	repo            Repository
	users           user.Repository
	defaultPassword string
	logger          *zap.Logger
}

func NewService(db *sql.DB, repo Repository, users user.Repository, defaultPassword string, logger ...*zap.Logger) Service {
	l := zap.L().Named("driver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("driver.service")
	}
	return &service{
		db:              db,
		repo:            repo,
		users:           users,
		defaultPassword: defaultPassword,
		logger:          l,
	}
}

func (s *service) Create(ctx context.Context, req CreateDriverRequest) (CreateDriverResponse, error) {
	meta := contextutil.ExtractMetadata(ctx)
	rid := meta.RequestID
	s.logger.Debug("create driver requested",
		zap.String("request_id", rid),
		zap.String("user_id", meta.UserID),
		zap.String("name", req.Name),
	)

	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusInactive {
		return CreateDriverResponse{}, drivererrors.ErrInvalidStatus
	}

	hashed, err := user.HashPassword(s.defaultPassword)
	if err != nil {
		return CreateDriverResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create driver begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CreateDriverResponse{}, err
	}
	defer tx.Rollback()

	d := &Driver{Name: req.Name, License: req.License, Status: status}
	if err := s.repo.WithTx(tx).Create(ctx, d); err != nil {
		s.logger.Error("create driver persist failed", zap.Error(err))
		return CreateDriverResponse{}, err
	}

	utx := s.users.WithTx(tx)
	username, err := user.GenerateUsername(ctx, utx, req.Name)
	if err != nil {
		s.logger.Warn("create driver username generation failed", zap.Error(err))
		return CreateDriverResponse{}, err
	}

	driverID := d.ID
	account := &user.User{
		Username: username,
		Password: hashed,
		Role:     rbac.RoleDriver,
		DriverID: &driverID,
		IsActive: true,
	}
	if err := utx.Create(ctx, account); err != nil {
		s.logger.Error("create driver account persist failed", zap.Error(err))
		return CreateDriverResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create driver commit failed", zap.Error(err))
		return CreateDriverResponse{}, err
	}

	s.logger.Info("create driver success",
		zap.String("request_id", rid),
		zap.Int64("driver_id", d.ID),
		zap.String("username", username),
	)

	return CreateDriverResponse{DriverResponse: ToResponse(*d), Username: username}, nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]DriverResponse, error) {
	if status != "" && status != StatusActive && status != StatusInactive {
		return nil, drivererrors.ErrInvalidStatus
	}

	drivers, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}

	resp := make([]DriverResponse, len(drivers))
	for i, d := range drivers {
		resp[i] = ToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (DriverResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DriverResponse{}, mapRepositoryError(err)
	}
	return ToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateDriverRequest) (DriverResponse, error) {
	if req.Status != StatusActive && req.Status != StatusInactive {
		return DriverResponse{}, drivererrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DriverResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DriverResponse{}, mapRepositoryError(err)
	}

	d.Name = req.Name
	d.License = req.License
	d.Status = req.Status

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("update driver persist failed", zap.Int64("driver_id", id), zap.Error(err))
		return DriverResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DriverResponse{}, err
	}
	return ToResponse(*d), nil
}

// Delete soft-deletes the driver and removes its login. Settled payrolls
// keep their snapshot of the driver name.
func (s *service) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.users.WithTx(tx).DeleteByDriverID(ctx, id); err != nil {
		s.logger.Error("delete driver account failed", zap.Int64("driver_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("driver deleted", zap.Int64("driver_id", id))
	return nil
}

func ToResponse(d Driver) DriverResponse {
	return DriverResponse{
		ID:        d.ID,
		Name:      d.Name,
		License:   d.License,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
