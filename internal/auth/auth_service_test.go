package auth_test

import (
	"context"
	"testing"
	"time"

	"go-fleetpay/internal/auth"
	autherrors "go-fleetpay/internal/auth/errors"
	"go-fleetpay/internal/user"
	userMock "go-fleetpay/internal/user/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const secret = "unit-test-secret"

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	assert.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, secret)
	ctx := context.Background()

	pw, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	driverID := int64(4)
	driverUser := &user.User{
		ID:       12,
		Username: "juanp",
		Password: string(pw),
		Role:     "driver",
		DriverID: &driverID,
		IsActive: true,
	}

	t.Run("Success Login", func(t *testing.T) {
		mockRepo.EXPECT().FindByUsername(ctx, "juanp").Return(driverUser, nil)

		access, refresh, resp, err := service.Login(ctx, "juanp", "password123")

		assert.NoError(t, err)
		assert.Equal(t, "juanp", resp.Username)
		assert.Equal(t, int64(4), *resp.DriverID)

		claims := parseClaims(t, access)
		assert.Equal(t, "12", claims["user_id"])
		assert.Equal(t, "driver", claims["role"])
		assert.Equal(t, "access", claims["typ"])
		assert.Equal(t, float64(4), claims["driver_id"])

		assert.Equal(t, "refresh", parseClaims(t, refresh)["typ"])
	})

	t.Run("Wrong Password", func(t *testing.T) {
		mockRepo.EXPECT().FindByUsername(ctx, "juanp").Return(driverUser, nil)

		_, _, _, err := service.Login(ctx, "juanp", "wrongpass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown User", func(t *testing.T) {
		mockRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := service.Login(ctx, "ghost", "password123")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Inactive User", func(t *testing.T) {
		inactive := *driverUser
		inactive.IsActive = false
		mockRepo.EXPECT().FindByUsername(ctx, "juanp").Return(&inactive, nil)

		_, _, _, err := service.Login(ctx, "juanp", "password123")

		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, secret)
	ctx := context.Background()

	admin := &user.User{ID: 1, Username: "admin", Role: "admin", IsActive: true}

	sign := func(typ string, exp time.Time) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "1",
			"role":    "admin",
			"typ":     typ,
			"exp":     exp.Unix(),
		}).SignedString([]byte(secret))
		assert.NoError(t, err)
		return token
	}

	t.Run("issues a new pair", func(t *testing.T) {
		mockRepo.EXPECT().FindByID(ctx, int64(1)).Return(admin, nil)

		access, refresh, resp, err := service.RefreshToken(ctx, sign("refresh", time.Now().Add(time.Hour)))

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "admin", resp.Role)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, _, _, err := service.RefreshToken(ctx, sign("access", time.Now().Add(time.Hour)))
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		_, _, _, err := service.RefreshToken(ctx, sign("refresh", time.Now().Add(-time.Hour)))
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, _, err := service.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, secret)
	ctx := context.Background()

	mockRepo.EXPECT().FindByID(ctx, int64(1)).Return(&user.User{ID: 1, Username: "admin", Role: "admin"}, nil)

	resp, err := service.GetMe(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)

	_, err = service.GetMe(ctx, "abc")
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}
