package employee

import (
	employeeerrors "staffly/internal/employee/errors"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/database"
)

const (
	constraintUsername     = "uq_users_username"
	constraintEmail        = "uq_employees_email"
	constraintDepartmentFK = "fk_employees_department"
	constraintUserPK       = "users_pkey"
	constraintEmployeePK   = "employees_pkey"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := apperror.As(err); ok {
		return err
	}

	if database.IsNotFound(err) {
		return employeeerrors.ErrEmployeeNotFound
	}

	if database.IsUniqueViolation(err) {
		switch database.ConstraintName(err) {
		case constraintUsername:
			return employeeerrors.ErrUsernameExists
		case constraintEmail:
			return employeeerrors.ErrEmailExists
		case constraintUserPK, constraintEmployeePK:
			return employeeerrors.ErrEmployeeIDTaken
		}
	}

	if database.IsSerializationFailure(err) {
		return employeeerrors.ErrConcurrentUpdate
	}

	if database.IsForeignKeyViolation(err) {
		if database.ConstraintName(err) == constraintDepartmentFK {
			return employeeerrors.ErrDepartmentNotFound
		}
		return employeeerrors.ErrEmployeeHasHistory
	}

	return apperror.Storage(err)
}
