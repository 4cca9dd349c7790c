package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *User) error
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]EmployeeDetail, error)
	FindByID(ctx context.Context, id string) (*EmployeeDetail, error)
	FindEmployee(ctx context.Context, id string) (*Employee, error)
	Count(ctx context.Context) (int64, error)
	UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error)
	EmailExists(ctx context.Context, email, excludeEmployeeID string) (bool, error)
	DepartmentExists(ctx context.Context, departmentID string) (bool, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	UpdateUserFields(ctx context.Context, userID string, fields map[string]any) error
	UpdateSalary(ctx context.Context, id string, salary SalaryFields) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteUser(ctx context.Context, userID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateUser(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("employees e").
		Select("e.*, d.name AS department_name, u.username, u.role").
		Joins("LEFT JOIN departments d ON d.department_id = e.department_id").
		Joins("LEFT JOIN users u ON u.user_id = e.user_id")
}

func (r *repository) FindAll(ctx context.Context) ([]EmployeeDetail, error) {
	var rows []EmployeeDetail
	err := r.detailQuery(ctx).
		Order("e.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeDetail, error) {
	var row EmployeeDetail
	err := r.detailQuery(ctx).
		Where("e.employee_id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindEmployee(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		Take(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Count(&total).Error
	return total, err
}

func (r *repository) UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username)
	if excludeUserID != "" {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *repository) EmailExists(ctx context.Context, email, excludeEmployeeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Employee{}).Where("email = ?", email)
	if excludeEmployeeID != "" {
		q = q.Where("employee_id <> ?", excludeEmployeeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *repository) DepartmentExists(ctx context.Context, departmentID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("department_id = ?", departmentID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("employee_id = ?", id).
		Updates(fields).Error
}

func (r *repository) UpdateUserFields(ctx context.Context, userID string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

func (r *repository) UpdateSalary(ctx context.Context, id string, salary SalaryFields) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("employee_id = ?", id).
		Updates(map[string]any{
			"basic_salary": salary.BasicSalary,
			"allowance":    salary.Allowance,
			"deduction":    salary.Deduction,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		Delete(&Employee{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&User{}).Error
}
