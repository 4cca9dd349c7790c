package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User is the login projection of the employee aggregate. It is created and
// removed only together with its Employee.
type User struct {
	UserID    string    `gorm:"column:user_id;type:varchar(10);primaryKey"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_users_username"`
	Password  string    `gorm:"type:varchar(255);not null"`
	Role      string    `gorm:"type:varchar(10);not null;default:'User'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// Employee owns the current pay terms. Null salary components count as zero.
type Employee struct {
	EmployeeID   string              `gorm:"column:employee_id;type:varchar(10);primaryKey"`
	UserID       string              `gorm:"column:user_id;type:varchar(10);not null;uniqueIndex:uq_employees_user"`
	FirstName    string              `gorm:"type:varchar(100);not null"`
	LastName     string              `gorm:"type:varchar(100);not null"`
	Email        string              `gorm:"type:varchar(255);not null;uniqueIndex:uq_employees_email"`
	Phone        string              `gorm:"type:varchar(10)"`
	DepartmentID *string             `gorm:"type:varchar(10);index"`
	BasicSalary  decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Allowance    decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Deduction    decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	CreatedAt    time.Time           `gorm:"autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime"`
}

func (Employee) TableName() string { return "employees" }

// EmployeeDetail is an employee joined with its department name and login fields.
type EmployeeDetail struct {
	Employee       `gorm:"embedded"`
	DepartmentName *string `gorm:"column:department_name"`
	Username       string  `gorm:"column:username"`
	Role           string  `gorm:"column:role"`
}

// SalaryFields is a full assignment of the salary base.
type SalaryFields struct {
	BasicSalary decimal.Decimal
	Allowance   decimal.Decimal
	Deduction   decimal.Decimal
}
