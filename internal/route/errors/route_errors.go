package routeerrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrRouteNotFound = apperror.New(
		apperror.CodeNotFound,
		"route not found",
		http.StatusNotFound,
	)
	ErrInvalidRouteID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid route id",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"alessi_cost and driver_pay cannot be negative",
		http.StatusBadRequest,
	)
)
