package leave

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]LeaveDetail, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveDetail, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	UpdateOwnedPending(ctx context.Context, id, employeeID string, fields map[string]any) (int64, error)
	DeleteOwnedPending(ctx context.Context, id, employeeID string) (int64, error)
	UpdateStatus(ctx context.Context, id, status string) (int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("leaves l").
		Select("l.*, e.first_name, e.last_name").
		Joins("JOIN employees e ON e.employee_id = l.employee_id")
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveDetail, error) {
	var rows []LeaveDetail
	err := r.detailQuery(ctx).
		Order("l.applied_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveDetail, error) {
	var rows []LeaveDetail
	err := r.detailQuery(ctx).
		Where("l.employee_id = ?", employeeID).
		Order("l.applied_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Where("leave_id = ?", id).
		Take(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateOwnedPending matches only the owner's pending row, so ownership and
// state are checked in the same statement as the write.
func (r *repository) UpdateOwnedPending(ctx context.Context, id, employeeID string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("leave_id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteOwnedPending(ctx context.Context, id, employeeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("leave_id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Delete(&Leave{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("leave_id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case StatusPending:
			counts.Pending = row.Total
		case StatusApproved:
			counts.Approved = row.Total
		case StatusRejected:
			counts.Rejected = row.Total
		}
	}
	return counts, nil
}
