package payroll

import (
	"fmt"
	"net/http"

	"go-fleetpay/internal/middleware"
	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Draft(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Draft(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) EditDeductions(c *gin.Context) {
	var req EditDeductionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.EditDeductions(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Settle(c *gin.Context) {
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Settle(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	driverID := middleware.OwnDriverID(c)
	if driverID == 0 {
		id, err := request.QueryID(c, "driver_id")
		if err != nil {
			h.writeServiceError(c, apperror.InvalidField("driver_id"))
			return
		}
		driverID = id
	}
	page, pageSize := response.PageParams(c)

	items, total, err := h.service.GetAll(c.Request.Context(), GetPayrollsFilterRequest{
		DriverID:  driverID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, payrollerrors.ErrInvalidPayrollID)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, middleware.OwnDriverID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Totals(c *gin.Context) {
	resp, err := h.service.Totals(c.Request.Context(), middleware.OwnDriverID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Statement streams one payroll statement as a file download.
func (h *Handler) Statement(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := request.PathID(c, "id")
		if err != nil {
			h.writeServiceError(c, payrollerrors.ErrInvalidPayrollID)
			return
		}

		st, err := h.service.Statement(c.Request.Context(), id, middleware.OwnDriverID(c), format)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", st.Filename))
		c.Data(http.StatusOK, st.ContentType, st.Content)
	}
}
