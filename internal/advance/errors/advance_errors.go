package advanceerrors

import (
	"go-fleetpay/internal/shared/apperror"
	"net/http"
)

var (
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Advance not found",
		http.StatusNotFound,
	)

	ErrInvalidAdvanceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid advance ID",
		http.StatusBadRequest,
	)

	ErrAmountNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)

	ErrUnknownDriver = apperror.New(
		apperror.CodeInvalidInput,
		"Driver does not exist",
		http.StatusBadRequest,
	)

	ErrAdvancePartiallyPaid = apperror.New(
		apperror.CodeConflict,
		"Advance already has deductions and cannot be deleted",
		http.StatusConflict,
	)
)
