package app_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"staffly/internal/app"
	"staffly/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureForeignKeys(t *testing.T) {
	db, mock := testutil.NewGormMock(t)

	for _, name := range []string{
		"fk_employees_user",
		"fk_employees_department",
		"fk_payrolls_employee",
		"fk_leaves_employee",
	} {
		mock.ExpectExec(regexp.QuoteMeta("conname = '" + name + "'")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, app.EnsureForeignKeys(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureForeignKeys_PayrollRestrictsEmployeeDelete(t *testing.T) {
	db, mock := testutil.NewGormMock(t)

	mock.ExpectExec("fk_employees_user").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("fk_employees_department").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE payrolls ADD CONSTRAINT fk_payrolls_employee FOREIGN KEY \(employee_id\) REFERENCES employees \(employee_id\) ON DELETE RESTRICT`).
		WillReturnError(errors.New("relation \"payrolls\" does not exist"))

	err := app.EnsureForeignKeys(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fk_payrolls_employee")
	assert.NoError(t, mock.ExpectationsWereMet())
}
