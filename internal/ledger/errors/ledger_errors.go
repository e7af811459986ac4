package ledgererrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrSchemaTooNew = apperror.New(
		apperror.CodeInvalidState,
		"ledger schema is newer than this build supports",
		http.StatusInternalServerError,
	)
	ErrCorruptSchemaVersion = apperror.New(
		apperror.CodeInvalidState,
		"ledger schema version is not a number",
		http.StatusInternalServerError,
	)
)
