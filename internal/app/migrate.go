package app

import (
	"context"
	"fmt"

	"staffly/internal/department"
	"staffly/internal/employee"
	"staffly/internal/leave"
	"staffly/internal/messaging/kafka"
	"staffly/internal/payroll"

	"gorm.io/gorm"
)

type foreignKey struct {
	name     string
	table    string
	column   string
	refTable string
	refCol   string
	onDelete string
}

// Payrolls and leaves keep their employee alive; removing an employee with
// history fails on the RESTRICT constraint.
var foreignKeys = []foreignKey{
	{"fk_employees_user", "employees", "user_id", "users", "user_id", "CASCADE"},
	{"fk_employees_department", "employees", "department_id", "departments", "department_id", "RESTRICT"},
	{"fk_payrolls_employee", "payrolls", "employee_id", "employees", "employee_id", "RESTRICT"},
	{"fk_leaves_employee", "leaves", "employee_id", "employees", "employee_id", "RESTRICT"},
}

// Migrate creates or updates every table the API owns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&department.Department{},
		&employee.User{},
		&employee.Employee{},
		&leave.Leave{},
		&payroll.Payroll{},
		&kafka.OutboxEvent{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureForeignKeys(ctx, db)
}

// EnsureForeignKeys adds the cross-module constraints AutoMigrate cannot infer.
// Each statement is a no-op when the constraint already exists.
func EnsureForeignKeys(ctx context.Context, db *gorm.DB) error {
	for _, fk := range foreignKeys {
		stmt := fmt.Sprintf(`DO $$ BEGIN
IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s;
END IF;
END $$;`, fk.name, fk.table, fk.name, fk.column, fk.refTable, fk.refCol, fk.onDelete)

		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", fk.name, err)
		}
	}
	return nil
}
