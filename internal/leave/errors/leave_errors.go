package leaveerrors

import (
	"net/http"

	"staffly/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Start date must be before or equal to end date",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid status",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave not found",
		http.StatusNotFound,
	)
	// ErrNotFoundOrUnauthorized covers both "not yours" and "not pending".
	ErrNotFoundOrUnauthorized = apperror.New(
		apperror.CodeNotFound,
		"Leave not found or unauthorized",
		http.StatusNotFound,
	)
	ErrStatusFinal = apperror.New(
		apperror.CodeConflict,
		"Leave has already been decided",
		apperror.StatusConflict,
	)
	ErrNoEmployee = apperror.New(
		apperror.CodeForbidden,
		"No employee record is linked to this account",
		http.StatusForbidden,
	)
)
