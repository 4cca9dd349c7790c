package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=100"`
	LastName     string `json:"last_name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Phone        string `json:"phone" binding:"required,numeric,len=10"`
	DepartmentID string `json:"department_id" binding:"omitempty,max=10"`
	Username     string `json:"username" binding:"required,min=3,max=100"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"omitempty,oneof=Admin User"`
}

// UpdateEmployeeRequest is a partial update. Nil fields are left untouched.
type UpdateEmployeeRequest struct {
	FirstName    *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email        *string `json:"email" binding:"omitempty,email,max=255"`
	Phone        *string `json:"phone" binding:"omitempty,numeric,len=10"`
	DepartmentID *string `json:"department_id" binding:"omitempty,max=10"`
	Username     *string `json:"username" binding:"omitempty,min=3,max=100"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
	Role         *string `json:"role" binding:"omitempty,oneof=Admin User"`
}

type UpdateSalaryRequest struct {
	BasicSalary *decimal.Decimal `json:"basic_salary" binding:"required"`
	Allowance   *decimal.Decimal `json:"allowance" binding:"required"`
	Deduction   *decimal.Decimal `json:"deduction" binding:"required"`
}

type CreateEmployeeResponse struct {
	EmployeeID string `json:"employee_id"`
	UserID     string `json:"user_id"`
}

type EmployeeResponse struct {
	EmployeeID     string          `json:"employee_id"`
	UserID         string          `json:"user_id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	DepartmentID   string          `json:"department_id,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
	Username       string          `json:"username,omitempty"`
	Role           string          `json:"role,omitempty"`
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowance      decimal.Decimal `json:"allowance"`
	Deduction      decimal.Decimal `json:"deduction"`
	CreatedAt      time.Time       `json:"created_at"`
}

type SalaryResponse struct {
	EmployeeID  string          `json:"employee_id"`
	Name        string          `json:"name"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	Allowance   decimal.Decimal `json:"allowance"`
	Deduction   decimal.Decimal `json:"deduction"`
}

type CountResponse struct {
	TotalEmployees int64 `json:"totalEmployees"`
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

func mapToResponse(d EmployeeDetail) EmployeeResponse {
	resp := EmployeeResponse{
		EmployeeID:  d.EmployeeID,
		UserID:      d.UserID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Phone:       d.Phone,
		Username:    d.Username,
		Role:        d.Role,
		BasicSalary: orZero(d.BasicSalary),
		Allowance:   orZero(d.Allowance),
		Deduction:   orZero(d.Deduction),
		CreatedAt:   d.CreatedAt,
	}
	if d.DepartmentID != nil {
		resp.DepartmentID = *d.DepartmentID
	}
	if d.DepartmentName != nil {
		resp.DepartmentName = *d.DepartmentName
	}
	return resp
}

func mapToListResponse(rows []EmployeeDetail) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
