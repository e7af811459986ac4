package driver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-fleetpay/internal/driver"
	drivererrors "go-fleetpay/internal/driver/errors"

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
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeDriverService struct {
	createFn  func(ctx context.Context, req driver.CreateDriverRequest) (driver.CreateDriverResponse, error)
	getAllFn  func(ctx context.Context, status string) ([]driver.DriverResponse, error)
	getByIDFn func(ctx context.Context, id int64) (driver.DriverResponse, error)
	updateFn  func(ctx context.Context, id int64, req driver.UpdateDriverRequest) (driver.DriverResponse, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (f *fakeDriverService) Create(ctx context.Context, req driver.CreateDriverRequest) (driver.CreateDriverResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeDriverService) GetAll(ctx context.Context, status string) ([]driver.DriverResponse, error) {
	return f.getAllFn(ctx, status)
}

func (f *fakeDriverService) GetByID(ctx context.Context, id int64) (driver.DriverResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeDriverService) Update(ctx context.Context, id int64, req driver.UpdateDriverRequest) (driver.DriverResponse, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeDriverService) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func TestDriverHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeDriverService{
		createFn: func(ctx context.Context, req driver.CreateDriverRequest) (driver.CreateDriverResponse, error) {
			assert.Equal(t, "Juan Perez", req.Name)
			return driver.CreateDriverResponse{
				DriverResponse: driver.DriverResponse{ID: 1, Name: req.Name, Status: driver.StatusActive},
				Username:       "juanp",
			}, nil
		},
	}

	h := driver.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/drivers", strings.NewReader(`{"name":"Juan Perez","license":"B-1"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	var data map[string]any
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "juanp", data["username"])
	assert.Equal(t, "Juan Perez", data["name"])
}

func TestDriverHandler_GetAll_PassesStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeDriverService{
		getAllFn: func(ctx context.Context, status string) ([]driver.DriverResponse, error) {
			assert.Equal(t, "inactive", status)
			return []driver.DriverResponse{}, nil
		},
	}

	h := driver.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/drivers?status=Inactive", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDriverHandler_Delete_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeDriverService{
		deleteFn: func(ctx context.Context, id int64) error { return drivererrors.ErrDriverNotFound },
	}

	h := driver.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/drivers/5", nil)
	c.Params = []gin.Param{{Key: "id", Value: "5"}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", mustDecodeEnvelope(t, w.Body.Bytes()).Error.Code)
}
