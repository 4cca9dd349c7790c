package payroll_test

import (
	"context"
	"testing"

	"staffly/internal/payroll"
	"staffly/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRepository_FindPayeesWithoutPayroll(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := payroll.NewRepository(db)

	query := `SELECT e\.employee_id, e\.basic_salary, e\.allowance, e\.deduction FROM employees e ` +
		`LEFT JOIN payrolls p ON p\.employee_id = e\.employee_id AND p\.month = \$1 AND p\.year = \$2 ` +
		`WHERE p\.payroll_id IS NULL ORDER BY e\.employee_id ASC`

	mock.ExpectQuery(query).
		WithArgs(6, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "basic_salary", "allowance", "deduction"}).
			AddRow("EMP0000001", "30000.00", "5000.00", "2000.00").
			AddRow("EMP0000002", "12000.00", nil, nil))

	payees, err := repo.FindPayeesWithoutPayroll(context.Background(), 6, 2024)

	assert.NoError(t, err)
	assert.Len(t, payees, 2)
	assert.True(t, payees[0].NetSalary().Equal(decimal.NewFromInt(33000)))
	assert.False(t, payees[1].Allowance.Valid)
	assert.True(t, payees[1].NetSalary().Equal(decimal.NewFromInt(12000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBatchSkipsConflicts(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectExec(`INSERT INTO "payrolls" .* ON CONFLICT \("employee_id","month","year"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.CreateBatch(context.Background(), []payroll.Payroll{
		{PayrollID: "PAY0000001", EmployeeID: "EMP0000001", Month: 6, Year: 2024, NetSalary: decimal.NewFromInt(1), PaymentStatus: payroll.StatusPending},
		{PayrollID: "PAY0000002", EmployeeID: "EMP0000002", Month: 6, Year: 2024, NetSalary: decimal.NewFromInt(2), PaymentStatus: payroll.StatusPending},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBatchEmpty(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := payroll.NewRepository(db)

	inserted, err := repo.CreateBatch(context.Background(), nil)

	assert.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteGuardsPaidRows(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectExec(`DELETE FROM "payrolls" WHERE \(?payroll_id = \$1 AND payment_status <> \$2\)?`).
		WithArgs("PAY1234567", payroll.StatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), "PAY1234567")

	assert.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByStatus(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FILTER \(WHERE payment_status = \$1\) AS paid, COUNT\(\*\) FILTER \(WHERE payment_status <> \$2\) AS unpaid FROM "payrolls"`).
		WithArgs(payroll.StatusPaid, payroll.StatusPaid).
		WillReturnRows(sqlmock.NewRows([]string{"paid", "unpaid"}).AddRow(3, 5))

	counts, err := repo.CountByStatus(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusCounts{Paid: 3, Unpaid: 5}, counts)
}
