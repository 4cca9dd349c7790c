package auth

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Credential, error)
	FindByUserID(ctx context.Context, userID string) (*Credential, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const credentialColumns = `u.user_id, u.username, u.password, u.role,
	COALESCE(e.employee_id, '') AS employee_id,
	COALESCE(e.first_name, '') AS first_name,
	COALESCE(e.last_name, '') AS last_name,
	COALESCE(e.email, '') AS email`

func (r *repository) FindByUsername(ctx context.Context, username string) (*Credential, error) {
	return r.findOne(ctx, "u.username = ?", username)
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Credential, error) {
	return r.findOne(ctx, "u.user_id = ?", userID)
}

func (r *repository) findOne(ctx context.Context, where string, arg any) (*Credential, error) {
	var cred Credential
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(credentialColumns).
		Joins("LEFT JOIN employees e ON e.user_id = u.user_id").
		Where(where, arg).
		Take(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
