package triperrors

import (
	"go-fleetpay/internal/shared/apperror"
	"net/http"
)

var (
	ErrTripNotFound = apperror.New(
		apperror.CodeNotFound,
		"Trip not found",
		http.StatusNotFound,
	)

	ErrInvalidTripID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid trip ID",
		http.StatusBadRequest,
	)

	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid month, expected YYYY-MM",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be assigned or completed",
		http.StatusBadRequest,
	)

	ErrUnknownDriver = apperror.New(
		apperror.CodeInvalidInput,
		"Driver does not exist",
		http.StatusBadRequest,
	)

	ErrInactiveDriver = apperror.New(
		apperror.CodeInvalidInput,
		"Driver is inactive",
		http.StatusBadRequest,
	)

	ErrUnknownRoute = apperror.New(
		apperror.CodeInvalidInput,
		"Route does not exist",
		http.StatusBadRequest,
	)

	ErrTripAlreadyPaid = apperror.New(
		apperror.CodeConflict,
		"Trip is already included in a payroll",
		http.StatusConflict,
	)
)
