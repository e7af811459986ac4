package usererrors

import (
	"go-fleetpay/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUsernameTaken = apperror.New(
		apperror.CodeConflict,
		"Username is already taken",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be admin or driver",
		http.StatusBadRequest,
	)

	ErrDriverIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"driver_id is required for driver accounts",
		http.StatusBadRequest,
	)

	ErrEmptyUsername = apperror.New(
		apperror.CodeInvalidInput,
		"Cannot derive a username from an empty name",
		http.StatusBadRequest,
	)
)
