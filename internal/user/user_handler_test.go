package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-fleetpay/internal/user"
	usererrors "go-fleetpay/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeUserService struct {
	getAllFn        func(ctx context.Context) ([]user.UserResponse, error)
	getByIDFn       func(ctx context.Context, id int64) (user.UserResponse, error)
	createFn        func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	toggleStatusFn  func(ctx context.Context, id int64, isActive bool) error
	resetPasswordFn func(ctx context.Context, id int64, newPassword string) error
}

func (f *fakeUserService) GetAll(ctx context.Context) ([]user.UserResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (user.UserResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserService) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeUserService) ToggleStatus(ctx context.Context, id int64, isActive bool) error {
	return f.toggleStatusFn(ctx, id, isActive)
}

func (f *fakeUserService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	return f.resetPasswordFn(ctx, id, newPassword)
}

func TestUserHandler_GetAll_FilterAndPaginate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeUserService{
		getAllFn: func(ctx context.Context) ([]user.UserResponse, error) {
			return []user.UserResponse{
				{ID: 1, Username: "admin"},
				{ID: 2, Username: "juanp"},
				{ID: 3, Username: "juanp2"},
			}, nil
		},
	}

	h := user.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users?q=juan&page=1&page_size=1", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	var data []user.UserResponse
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data, 1)
	assert.Equal(t, "juanp", data[0].Username)
	assert.Contains(t, string(env.Meta), `"total":2`)
}

func TestUserHandler_GetByID_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := user.NewHandler(&fakeUserService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	c.Params = []gin.Param{{Key: "id", Value: "abc"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
				assert.Equal(t, "ops", req.Username)
				assert.Equal(t, "admin", req.Role)
				return user.UserResponse{ID: 7, Username: req.Username, Role: req.Role}, nil
			},
		}
		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"ops","password":"secret1","role":"admin"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, mustDecodeEnvelope(t, w.Body.Bytes()).Ok)
	})

	t.Run("validation error", func(t *testing.T) {
		h := user.NewHandler(&fakeUserService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"ops","password":"secret1","role":"boss"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", mustDecodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeUserService{
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrUsernameTaken
			},
		}
		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"ops","password":"secret1","role":"admin"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_ToggleStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeUserService{
		toggleStatusFn: func(ctx context.Context, id int64, isActive bool) error {
			assert.Equal(t, int64(3), id)
			assert.False(t, isActive)
			return nil
		},
	}
	h := user.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/users/3/status", strings.NewReader(`{"is_active":false}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: "3"}}

	h.ToggleStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_ResetPassword_InternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeUserService{
		resetPasswordFn: func(ctx context.Context, id int64, newPassword string) error {
			return errors.New("boom")
		},
	}
	h := user.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users/3/reset-password", strings.NewReader(`{"new_password":"abcdef"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: "3"}}

	h.ResetPassword(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", mustDecodeEnvelope(t, w.Body.Bytes()).Error.Code)
}
