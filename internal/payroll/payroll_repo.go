package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPayeesWithoutPayroll(ctx context.Context, month, year int) ([]Payee, error)
	CreateBatch(ctx context.Context, rows []Payroll) (int64, error)
	Create(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByPeriod(ctx context.Context, employeeID string, month, year int) (*Payroll, error)
	List(ctx context.Context, filter Filter) ([]PayrollDetail, error)
	UpdateNetSalary(ctx context.Context, id string, net decimal.Decimal) (int64, error)
	UpdateStatus(ctx context.Context, id, status string, paymentDate *time.Time) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
	UpdateEmployeeSalary(ctx context.Context, employeeID string, salary SalaryBase) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindPayeesWithoutPayroll is the anti-join driving generation: employees with
// no payroll row for the period.
func (r *repository) FindPayeesWithoutPayroll(ctx context.Context, month, year int) ([]Payee, error) {
	var payees []Payee
	err := r.db.WithContext(ctx).
		Table("employees e").
		Select("e.employee_id, e.basic_salary, e.allowance, e.deduction").
		Joins("LEFT JOIN payrolls p ON p.employee_id = e.employee_id AND p.month = ? AND p.year = ?", month, year).
		Where("p.payroll_id IS NULL").
		Order("e.employee_id ASC").
		Scan(&payees).Error
	return payees, err
}

// CreateBatch inserts rows in one statement. Rows already present for the
// same period are skipped by the unique index; the result is the number
// actually inserted.
func (r *repository) CreateBatch(ctx context.Context, rows []Payroll) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "month"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", id).
		Take(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByPeriod(ctx context.Context, employeeID string, month, year int) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		Take(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]PayrollDetail, error) {
	q := r.db.WithContext(ctx).
		Table("payrolls p").
		Select("p.*, e.first_name, e.last_name, e.basic_salary, e.allowance, e.deduction").
		Joins("JOIN employees e ON e.employee_id = p.employee_id")

	if filter.EmployeeID != "" {
		q = q.Where("p.employee_id = ?", filter.EmployeeID)
	}
	if filter.Month != 0 {
		q = q.Where("p.month = ?", filter.Month)
	}
	if filter.Year != 0 {
		q = q.Where("p.year = ?", filter.Year)
	}

	var rows []PayrollDetail
	err := q.Order("p.year DESC, p.month DESC, e.first_name ASC").Scan(&rows).Error
	return rows, err
}

// UpdateNetSalary never touches a paid row.
func (r *repository) UpdateNetSalary(ctx context.Context, id string, net decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("payroll_id = ? AND payment_status <> ?", id, StatusPaid).
		Update("net_salary", net)
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string, paymentDate *time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("payroll_id = ? AND payment_status <> ?", id, StatusPaid).
		Updates(map[string]any{
			"payment_status": status,
			"payment_date":   paymentDate,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("payroll_id = ? AND payment_status <> ?", id, StatusPaid).
		Delete(&Payroll{})
	return res.RowsAffected, res.Error
}

func (r *repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Select(
			"COUNT(*) FILTER (WHERE payment_status = ?) AS paid, COUNT(*) FILTER (WHERE payment_status <> ?) AS unpaid",
			StatusPaid, StatusPaid,
		).
		Scan(&counts).Error
	return counts, err
}

func (r *repository) UpdateEmployeeSalary(ctx context.Context, employeeID string, salary SalaryBase) (int64, error) {
	res := r.db.WithContext(ctx).
		Table("employees").
		Where("employee_id = ?", employeeID).
		Updates(map[string]any{
			"basic_salary": salary.BasicSalary,
			"allowance":    salary.Allowance,
			"deduction":    salary.Deduction,
			"updated_at":   gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}
