package employeeerrors

import (
	"net/http"

	"staffly/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrUsernameExists = apperror.New(
		apperror.CodeConflict,
		"Username already exists",
		apperror.StatusConflict,
	)
	ErrEmailExists = apperror.New(
		apperror.CodeConflict,
		"Email already exists",
		apperror.StatusConflict,
	)
	ErrEmployeeIDTaken = apperror.New(
		apperror.CodeConflict,
		"Employee ID already taken, please retry",
		apperror.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"Employee was changed by another request, please retry",
		apperror.StatusConflict,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department not found",
		http.StatusNotFound,
	)
	ErrEmployeeHasHistory = apperror.New(
		apperror.CodeConflict,
		"Employee has payroll or leave records and cannot be deleted",
		apperror.StatusConflict,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Salary components cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)
