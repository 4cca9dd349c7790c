package payrollerrors

import (
	"net/http"

	"staffly/internal/shared/apperror"
)

var (
	ErrPeriodRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Month and year are required",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid month",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid payment status",
		http.StatusBadRequest,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Salary components cannot be negative",
		http.StatusBadRequest,
	)
	ErrAlreadyGenerated = apperror.New(
		apperror.CodeConflict,
		"Payroll already generated for all employees this month",
		apperror.StatusConflict,
	)
	ErrPayrollExists = apperror.New(
		apperror.CodeConflict,
		"Payroll already exists for this period",
		apperror.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"Payroll was changed by another request, please retry",
		apperror.StatusConflict,
	)
	ErrPaidPayroll = apperror.New(
		apperror.CodeConflict,
		"Cannot modify paid payroll",
		apperror.StatusConflict,
	)
	ErrDeletePaid = apperror.New(
		apperror.CodeConflict,
		"Cannot delete paid payroll",
		apperror.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
)
