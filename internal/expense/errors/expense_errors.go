package expenseerrors

import (
	"go-fleetpay/internal/shared/apperror"
	"net/http"
)

var (
	ErrExpenseNotFound = apperror.New(
		apperror.CodeNotFound,
		"Expense not found",
		http.StatusNotFound,
	)

	ErrInvalidExpenseID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid expense ID",
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

	ErrExpenseAlreadyPaid = apperror.New(
		apperror.CodeConflict,
		"Expense has already been paid",
		http.StatusConflict,
	)
)
