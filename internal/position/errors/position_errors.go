package positionerrors

import (
	"net/http"

	"go-hris-workflow/internal/shared/apperror"
)

var (
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Position not found",
		http.StatusNotFound,
	)
	ErrReportsToNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"reports_to_position_id does not exist in this company",
		http.StatusBadRequest,
	)
	ErrReportingCycle = apperror.New(
		apperror.CodeInvalidInput,
		"position cannot report to itself or to one of its own reports",
		http.StatusBadRequest,
	)
	ErrPositionHasReports = apperror.New(
		apperror.CodeConflict,
		"position still has positions reporting to it",
		http.StatusConflict,
	)
	ErrInvalidPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid position id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
)
