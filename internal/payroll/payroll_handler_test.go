package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/payroll"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/payroll/mock"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakePayrollService struct {
	payroll.Service
	settleFn    func(ctx context.Context, actorID int64, req payroll.SettleRequest) (payroll.SettleResponse, error)
	getAllFn    func(ctx context.Context, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollSummaryResponse, int64, error)
	statementFn func(ctx context.Context, id, ownDriverID int64, format string) (payroll.Statement, error)
}

func (f *fakePayrollService) Settle(ctx context.Context, actorID int64, req payroll.SettleRequest) (payroll.SettleResponse, error) {
	return f.settleFn(ctx, actorID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollSummaryResponse, int64, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakePayrollService) Statement(ctx context.Context, id, ownDriverID int64, format string) (payroll.Statement, error) {
	return f.statementFn(ctx, id, ownDriverID, format)
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPayrollHandler_Settle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("omitted deductions stay nil", func(t *testing.T) {
		svc := &fakePayrollService{
			settleFn: func(ctx context.Context, actorID int64, req payroll.SettleRequest) (payroll.SettleResponse, error) {
				assert.Equal(t, int64(42), actorID)
				assert.Equal(t, []int64{1, 2}, req.TripIDs)
				assert.Nil(t, req.AdvanceDeductions)
				return payroll.SettleResponse{Payroll: payroll.PayrollResponse{
					PayrollSummaryResponse: payroll.PayrollSummaryResponse{PayrollNumber: 12, TotalNetPayment: decimal.NewFromInt(250)},
				}}, nil
			},
		}

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = postJSON("/payrolls/settle", `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31","trip_ids":[1,2],"expense_ids":[]}`)
		c.Set(middleware.CtxUserID, "42")

		h.Settle(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var env struct {
			Data struct {
				Payroll struct {
					PayrollNumber int64 `json:"payroll_number"`
				} `json:"payroll"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, int64(12), env.Data.Payroll.PayrollNumber)
	})

	t.Run("empty deductions list is kept", func(t *testing.T) {
		svc := &fakePayrollService{
			settleFn: func(ctx context.Context, actorID int64, req payroll.SettleRequest) (payroll.SettleResponse, error) {
				assert.NotNil(t, req.AdvanceDeductions)
				assert.Empty(t, req.AdvanceDeductions)
				return payroll.SettleResponse{}, nil
			},
		}

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = postJSON("/payrolls/settle", `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31","advance_deductions":[]}`)

		h.Settle(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("errors map to status codes", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"stale draft", payrollerrors.ErrStaleDraft, http.StatusConflict},
			{"in progress", payrollerrors.ErrSettlementInProgress, http.StatusConflict},
			{"unknown driver", payrollerrors.ErrDriverNotFound, http.StatusNotFound},
			{"ineligible trip", payrollerrors.ErrIneligibleTrip, http.StatusBadRequest},
			{"nothing to pay", payrollerrors.ErrNothingToPay, http.StatusUnprocessableEntity},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakePayrollService{
					settleFn: func(ctx context.Context, actorID int64, req payroll.SettleRequest) (payroll.SettleResponse, error) {
						return payroll.SettleResponse{}, tt.err
					},
				}
				h := payroll.NewHandler(svc)
				w := httptest.NewRecorder()
				c, _ := gin.CreateTestContext(w)
				c.Request = postJSON("/payrolls/settle", `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31"}`)

				h.Settle(c)

				assert.Equal(t, tt.want, w.Code)
			})
		}
	})

	t.Run("missing period", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = postJSON("/payrolls/settle", `{"driver_id":1}`)

		h.Settle(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_GetAll_DriverPinnedAndPaginated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakePayrollService{
		getAllFn: func(ctx context.Context, f payroll.GetPayrollsFilterRequest) ([]payroll.PayrollSummaryResponse, int64, error) {
			assert.Equal(t, int64(4), f.DriverID)
			assert.Equal(t, 2, f.Page)
			assert.Equal(t, 10, f.PageSize)
			return []payroll.PayrollSummaryResponse{{ID: 1}}, 11, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls?driver_id=9&page=2&page_size=10", nil)
	c.Set(middleware.CtxRole, rbac.RoleDriver)
	c.Set(middleware.CtxDriverID, int64(4))

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Meta struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(11), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
}

func TestPayrollHandler_Statement(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakePayrollService{
		statementFn: func(ctx context.Context, id, ownDriverID int64, format string) (payroll.Statement, error) {
			assert.Equal(t, int64(5), id)
			assert.Equal(t, payroll.FormatPDF, format)
			return payroll.Statement{Filename: "payroll-000012.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")}, nil
		},
	}

	r := gin.New()
	h := payroll.NewHandler(svc)
	r.GET("/payrolls/:id/statement.pdf", h.Statement(payroll.FormatPDF))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payrolls/5/statement.pdf", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payroll-000012.pdf")
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestPayrollHandler_Draft_NothingToPay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().
		Draft(gomock.Any(), payroll.DraftRequest{DriverID: 1, StartDate: "2026-03-01", EndDate: "2026-03-31"}).
		Return(payroll.DraftResultResponse{Reason: payroll.ReasonNothingToPay}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = postJSON("/payrolls/draft", `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31"}`)

	payroll.NewHandler(svc).Draft(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"NOTHING_TO_PAY"`)
	assert.Contains(t, w.Body.String(), `"draft":null`)
}

func TestPayrollHandler_EditDeductions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       string
		setup      func(svc *mock.MockService)
		wantStatus int
	}{
		{
			name: "omitted list keeps the allocation",
			body: `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31"}`,
			setup: func(svc *mock.MockService) {
				svc.EXPECT().EditDeductions(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, req payroll.EditDeductionsRequest) (payroll.DraftResultResponse, error) {
						assert.Nil(t, req.AdvanceDeductions)
						return payroll.DraftResultResponse{Reason: payroll.ReasonReady}, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "listed deductions are passed as sent",
			body: `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31","advance_deductions":[{"advance_id":9,"deducted_amount":20}]}`,
			setup: func(svc *mock.MockService) {
				svc.EXPECT().EditDeductions(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, req payroll.EditDeductionsRequest) (payroll.DraftResultResponse, error) {
						if assert.Len(t, req.AdvanceDeductions, 1) {
							assert.Equal(t, int64(9), req.AdvanceDeductions[0].AdvanceID)
							assert.Equal(t, "20", req.AdvanceDeductions[0].DeductedAmount.String())
						}
						return payroll.DraftResultResponse{Reason: payroll.ReasonReady}, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "duplicate advance",
			body: `{"driver_id":1,"start_date":"2026-03-01","end_date":"2026-03-31","advance_deductions":[{"advance_id":9,"deducted_amount":20},{"advance_id":9,"deducted_amount":5}]}`,
			setup: func(svc *mock.MockService) {
				svc.EXPECT().EditDeductions(gomock.Any(), gomock.Any()).
					Return(payroll.DraftResultResponse{}, payrollerrors.ErrDuplicateDeduction)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing driver",
			body:       `{"start_date":"2026-03-01","end_date":"2026-03-31"}`,
			setup:      func(svc *mock.MockService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mock.NewMockService(ctrl)
			tc.setup(svc)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = postJSON("/payrolls/draft/deductions", tc.body)

			payroll.NewHandler(svc).EditDeductions(c)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
