package drivererrors

import (
	"go-fleetpay/internal/shared/apperror"
	"net/http"
)

var (
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Driver not found",
		http.StatusNotFound,
	)

	ErrInvalidDriverID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid driver ID",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be active or inactive",
		http.StatusBadRequest,
	)
)
