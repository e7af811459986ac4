package user

import (
	"context"
	"errors"

	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/shared/contextutil"
	usererrors "go-fleetpay/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id int64) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	ToggleStatus(ctx context.Context, id int64, isActive bool) error
	ResetPassword(ctx context.Context, id int64, newPassword string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = ToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return ToResponse(*u), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !rbac.IsValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}
	if req.Role == rbac.RoleDriver && (req.DriverID == nil || *req.DriverID <= 0) {
		return UserResponse{}, usererrors.ErrDriverIDRequired
	}
	if req.Role == rbac.RoleAdmin {
		req.DriverID = nil
	}

	l.Info("creating user", zap.String("username", req.Username), zap.String("role", req.Role))

	hashed, err := HashPassword(req.Password)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		Username: req.Username,
		Password: hashed,
		Role:     req.Role,
		DriverID: req.DriverID,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("failed to create user", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	l.Info("user created successfully", zap.Int64("user_id", u.ID))
	return ToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, id int64, isActive bool) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("failed to update user status", zap.Int64("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	u.Password = hashed
	return s.repo.Update(ctx, u)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return usererrors.ErrUsernameTaken
	}
	return err
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		DriverID:  u.DriverID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
