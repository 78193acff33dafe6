package workflowerrors

import (
	"net/http"

	"go-hris-workflow/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Approval request not found",
		http.StatusNotFound,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid approval request ID",
		http.StatusBadRequest,
	)
	ErrUnknownRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown request type",
		http.StatusBadRequest,
	)
	ErrInvalidPayload = apperror.New(
		apperror.CodeInvalidInput,
		"Request payload is invalid",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveDates = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeConflict,
		"Approval request is already resolved",
		http.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"Approval request was changed by another decision",
		http.StatusConflict,
	)
	ErrDuplicateHumanID = apperror.New(
		apperror.CodeConflict,
		"Approval request identifier already exists",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Action is not allowed in the current state",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You are not allowed to act on this approval stage",
		http.StatusForbidden,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A reason is required for this decision",
		http.StatusBadRequest,
	)
	ErrPayrollRunRequired = apperror.New(
		apperror.CodeInvalidInput,
		"payroll_run_id is required to mark a refund as paid",
		http.StatusBadRequest,
	)
	ErrInvalidFinanceStaff = apperror.New(
		apperror.CodeInvalidInput,
		"finance_staff_id is invalid",
		http.StatusBadRequest,
	)
)
