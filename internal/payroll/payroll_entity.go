package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

const minYear = 2000

// Payroll is the net salary snapshot of one employee for one period. The
// unique index is the backstop against concurrent generation.
type Payroll struct {
	PayrollID     string          `gorm:"column:payroll_id;type:varchar(10);primaryKey"`
	EmployeeID    string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_payroll_employee_period,priority:1"`
	Month         int             `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:2"`
	Year          int             `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:3"`
	NetSalary     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentStatus string          `gorm:"type:varchar(10);not null;default:'pending';index"`
	PaymentDate   *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Payroll) TableName() string { return "payrolls" }

func (p Payroll) IsPaid() bool { return p.PaymentStatus == StatusPaid }

// Payee is an employee's current salary base as read during generation.
type Payee struct {
	EmployeeID  string
	BasicSalary decimal.NullDecimal
	Allowance   decimal.NullDecimal
	Deduction   decimal.NullDecimal
}

// NetSalary is basic + allowance - deduction with null components as zero.
func (p Payee) NetSalary() decimal.Decimal {
	return orZero(p.BasicSalary).Add(orZero(p.Allowance)).Sub(orZero(p.Deduction))
}

// PayrollDetail is a payroll joined with the employee name and current pay terms.
type PayrollDetail struct {
	Payroll     `gorm:"embedded"`
	FirstName   string              `gorm:"column:first_name"`
	LastName    string              `gorm:"column:last_name"`
	BasicSalary decimal.NullDecimal `gorm:"column:basic_salary"`
	Allowance   decimal.NullDecimal `gorm:"column:allowance"`
	Deduction   decimal.NullDecimal `gorm:"column:deduction"`
}

// SalaryBase is the full set of pay terms written onto an employee.
type SalaryBase struct {
	BasicSalary decimal.Decimal
	Allowance   decimal.Decimal
	Deduction   decimal.Decimal
}

// Filter narrows payroll listings. Zero values mean "any".
type Filter struct {
	EmployeeID string
	Month      int
	Year       int
}

type StatusCounts struct {
	Paid   int64
	Unpaid int64
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
