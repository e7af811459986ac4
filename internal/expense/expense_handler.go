package expense

import (
	"net/http"
	"strconv"

	expenseerrors "go-fleetpay/internal/expense/errors"
	"go-fleetpay/internal/middleware"
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
	l := zap.L().Named("expense.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("expense.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("expense request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
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

	filter := GetExpensesFilterRequest{
		DriverID:  driverID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if raw := c.Query("is_paid"); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeServiceError(c, apperror.InvalidField("is_paid"))
			return
		}
		filter.IsPaid = &paid
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, expenseerrors.ErrInvalidExpenseID)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, middleware.OwnDriverID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, expenseerrors.ErrInvalidExpenseID)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
