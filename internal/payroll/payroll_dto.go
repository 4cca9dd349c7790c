package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type GenerateRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type GenerateResponse struct {
	Month     int `json:"month"`
	Year      int `json:"year"`
	Generated int `json:"generated"`
}

type ManagePayrollRequest struct {
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	BasicSalary *decimal.Decimal `json:"basic_salary" binding:"required"`
	Allowance   *decimal.Decimal `json:"allowance" binding:"required"`
	Deduction   *decimal.Decimal `json:"deduction" binding:"required"`
	NetSalary   *decimal.Decimal `json:"net_salary" binding:"required"`
}

type ManagePayrollResponse struct {
	PayrollID     string          `json:"payroll_id"`
	EmployeeID    string          `json:"employee_id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	PaymentStatus string          `json:"payment_status"`
	Created       bool            `json:"created"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type StatusResponse struct {
	PayrollID     string  `json:"payroll_id"`
	PaymentStatus string  `json:"payment_status"`
	PaymentDate   *string `json:"payment_date"`
}

// ListQuery carries the optional period filter; "all" or empty means no filter.
type ListQuery struct {
	Month string `form:"month" binding:"omitempty,max=4"`
	Year  string `form:"year" binding:"omitempty,max=4"`
}

type PayrollResponse struct {
	PayrollID     string          `json:"payroll_id"`
	EmployeeID    string          `json:"employee_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	Allowance     decimal.Decimal `json:"allowance"`
	Deduction     decimal.Decimal `json:"deduction"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	PaymentStatus string          `json:"payment_status"`
	PaymentDate   *string         `json:"payment_date"`
	CreatedAt     string          `json:"created_at"`
}

type StatusCountsResponse struct {
	Paid   int64 `json:"paid"`
	Unpaid int64 `json:"unpaid"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(d PayrollDetail) PayrollResponse {
	return PayrollResponse{
		PayrollID:     d.PayrollID,
		EmployeeID:    d.EmployeeID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Month:         d.Month,
		Year:          d.Year,
		BasicSalary:   orZero(d.BasicSalary),
		Allowance:     orZero(d.Allowance),
		Deduction:     orZero(d.Deduction),
		NetSalary:     d.NetSalary,
		PaymentStatus: d.PaymentStatus,
		PaymentDate:   formatTimePtr(d.PaymentDate),
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []PayrollDetail) []PayrollResponse {
	resp := make([]PayrollResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp
}
