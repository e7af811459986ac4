package trip

import (
	"net/http"
	"strings"

	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/shared/response"
	triperrors "go-fleetpay/internal/trip/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("trip.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("trip.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("trip request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// driverFilter pins drivers to their own trips and lets admins pick one.
func driverFilter(c *gin.Context) (int64, error) {
	if own := middleware.OwnDriverID(c); own != 0 {
		return own, nil
	}
	return request.QueryID(c, "driver_id")
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create trip validation failed", zap.Error(err))
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
	driverID, err := driverFilter(c)
	if err != nil {
		h.writeServiceError(c, apperror.InvalidField("driver_id"))
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), GetTripsFilterRequest{
		DriverID:  driverID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    strings.ToLower(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	meta := response.NewPaginationMeta(int64(len(resp)), page, pageSize)
	response.Success(c, http.StatusOK, response.PageSlice(resp, page, pageSize), &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, triperrors.ErrInvalidTripID)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, middleware.OwnDriverID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, triperrors.ErrInvalidTripID)
		return
	}

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, triperrors.ErrInvalidTripID)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ToggleStatus(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		h.writeServiceError(c, triperrors.ErrInvalidTripID)
		return
	}

	resp, err := h.service.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Calendar(c *gin.Context) {
	driverID, err := driverFilter(c)
	if err != nil {
		h.writeServiceError(c, apperror.InvalidField("driver_id"))
		return
	}

	month := c.Query("month")
	if month == "" {
		h.writeServiceError(c, apperror.RequiredField("month"))
		return
	}

	resp, err := h.service.Calendar(c.Request.Context(), month, driverID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
