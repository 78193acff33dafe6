package auditerrors

import (
	"net/http"

	"go-hris-workflow/internal/shared/apperror"
)

var (
	ErrInvalidEntry = apperror.New(
		apperror.CodeInternalError,
		"Audit entry is incomplete",
		http.StatusInternalServerError,
	)
)
