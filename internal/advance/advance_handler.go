package advance

import (
	"net/http"
	"strconv"

	advanceerrors "go-fleetpay/internal/advance/errors"
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
	l := zap.L().Named("advance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("advance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("advance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAdvanceRequest
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

	filter := GetAdvancesFilterRequest{
		DriverID:  driverID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if raw := c.Query("outstanding_only"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeServiceError(c, apperror.InvalidField("outstanding_only"))
			return
		}
		filter.OutstandingOnly = only
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
		h.writeServiceError(c, advanceerrors.ErrInvalidAdvanceID)
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
		h.writeServiceError(c, advanceerrors.ErrInvalidAdvanceID)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
