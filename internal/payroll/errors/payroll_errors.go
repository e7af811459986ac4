package payrollerrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"driver not found",
		http.StatusNotFound,
	)
	ErrNothingToPay = apperror.New(
		apperror.CodeInvalidState,
		"nothing to pay for this driver in the selected period",
		http.StatusUnprocessableEntity,
	)
	ErrStaleDraft = apperror.New(
		apperror.CodeConflict,
		"some trips or expenses were paid after the draft was produced",
		http.StatusConflict,
	)
	ErrIneligibleTrip = apperror.New(
		apperror.CodeInvalidInput,
		"trip does not belong to the driver or period",
		http.StatusBadRequest,
	)
	ErrIneligibleExpense = apperror.New(
		apperror.CodeInvalidInput,
		"expense does not belong to the driver or period",
		http.StatusBadRequest,
	)
	ErrUnknownAdvance = apperror.New(
		apperror.CodeInvalidInput,
		"advance is not an outstanding advance of this driver",
		http.StatusBadRequest,
	)
	ErrDuplicateDeduction = apperror.New(
		apperror.CodeInvalidInput,
		"advance appears more than once in advance_deductions",
		http.StatusBadRequest,
	)
	ErrSettlementInProgress = apperror.New(
		apperror.CodeConflict,
		"another settlement for this driver is in progress",
		http.StatusConflict,
	)
	ErrInvalidStatementFormat = apperror.New(
		apperror.CodeInvalidInput,
		"statement format must be xlsx or pdf",
		http.StatusBadRequest,
	)
)
