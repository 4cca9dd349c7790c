package department

import (
	"context"

	"staffly/internal/shared/apperror"

	"go.uber.org/zap"
)

type Service interface {
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	Count(ctx context.Context) (CountResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all departments failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(depts), nil
}

func (s *service) Count(ctx context.Context) (CountResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("count departments failed", zap.Error(err))
		return CountResponse{}, apperror.Storage(err)
	}
	return CountResponse{TotalDepartments: total}, nil
}
