package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"staffly/internal/shared/database"
	"staffly/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	db, mock := testutil.NewGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "employees"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := database.RunInTx(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Exec(`UPDATE "employees" SET phone = ? WHERE employee_id = ?`, "0812345678", "EMP1").Error
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	db, mock := testutil.NewGormMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := database.RunInTx(context.Background(), db, func(tx *gorm.DB) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_payroll_employee_period"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, database.IsUniqueViolation(unique))
	assert.False(t, database.IsUniqueViolation(fk))
	assert.True(t, database.IsForeignKeyViolation(fk))
	assert.Equal(t, "uq_payroll_employee_period", database.ConstraintName(unique))
	assert.True(t, database.IsNotFound(fmt.Errorf("x: %w", gorm.ErrRecordNotFound)))

	serialization := fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})
	assert.True(t, database.IsSerializationFailure(serialization))
	assert.False(t, database.IsSerializationFailure(unique))
	assert.False(t, database.IsUniqueViolation(serialization))
}
