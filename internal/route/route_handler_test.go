package route_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-fleetpay/internal/route"
	routeerrors "go-fleetpay/internal/route/errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
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

type fakeRouteService struct {
	createFn  func(ctx context.Context, req route.CreateRouteRequest) (route.RouteResponse, error)
	getAllFn  func(ctx context.Context) ([]route.RouteResponse, error)
	getByIDFn func(ctx context.Context, id int64) (route.RouteResponse, error)
	updateFn  func(ctx context.Context, id int64, req route.UpdateRouteRequest) (route.RouteResponse, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (f *fakeRouteService) Create(ctx context.Context, req route.CreateRouteRequest) (route.RouteResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeRouteService) GetAll(ctx context.Context) ([]route.RouteResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeRouteService) GetByID(ctx context.Context, id int64) (route.RouteResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeRouteService) Update(ctx context.Context, id int64, req route.UpdateRouteRequest) (route.RouteResponse, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeRouteService) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func TestRouteHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeRouteService{
		createFn: func(ctx context.Context, req route.CreateRouteRequest) (route.RouteResponse, error) {
			assert.Equal(t, "Norte", req.Name)
			assert.True(t, req.DriverPay.Equal(decimal.RequireFromString("100.50")))
			return route.RouteResponse{ID: 1, Name: req.Name, DriverPay: req.DriverPay}, nil
		},
	}

	h := route.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(`{"name":"Norte","alessi_cost":150,"driver_pay":100.50,"duration":"3h"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mustDecodeEnvelope(t, w.Body.Bytes()).Ok)
}

func TestRouteHandler_Create_NegativeAmount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeRouteService{
		createFn: func(ctx context.Context, req route.CreateRouteRequest) (route.RouteResponse, error) {
			return route.RouteResponse{}, routeerrors.ErrNegativeAmount
		},
	}

	h := route.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(`{"name":"Norte","driver_pay":-1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", mustDecodeEnvelope(t, w.Body.Bytes()).Error.Code)
}

func TestRouteHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		svc := &fakeRouteService{
			getByIDFn: func(ctx context.Context, id int64) (route.RouteResponse, error) {
				assert.Equal(t, int64(42), id)
				return route.RouteResponse{}, routeerrors.ErrRouteNotFound
			},
		}
		h := route.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/routes/42", nil)
		c.Params = []gin.Param{{Key: "id", Value: "42"}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := route.NewHandler(&fakeRouteService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/routes/x", nil)
		c.Params = []gin.Param{{Key: "id", Value: "x"}}

		h.GetByID(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouteHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeRouteService{
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	h := route.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/routes/3", nil)
	c.Params = []gin.Param{{Key: "id", Value: "3"}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
