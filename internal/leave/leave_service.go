package leave

import (
	"context"
	"strings"
	"time"

	leaveerrors "staffly/internal/leave/errors"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/contextutil"
	"staffly/internal/shared/database"
	"staffly/internal/shared/identifier"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (CreateLeaveResponse, error)
	GetAll(ctx context.Context, employeeID string, isAdmin bool) ([]LeaveResponse, error)
	GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	Update(ctx context.Context, employeeID, id string, req UpdateLeaveRequest) error
	Delete(ctx context.Context, employeeID, id string) error
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) error
	StatusCounts(ctx context.Context) (StatusCountsResponse, error)
}

// Options carries the leave policy flags.
type Options struct {
	// AllowReopen lets an admin move an approved or rejected leave back to pending
	// or to the other decision.
	AllowReopen bool
}

type service struct {
	db     *gorm.DB
	repo   Repository
	opts   Options
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, opts: opts, logger: l}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (CreateLeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if employeeID == "" {
		return CreateLeaveResponse{}, leaveerrors.ErrNoEmployee
	}

	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	l := &Leave{
		LeaveID:    identifier.NewLeaveID(),
		EmployeeID: employeeID,
		Reason:     req.Reason,
		Type:       req.Type,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return CreateLeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.LeaveID),
		zap.String("employee_id", employeeID),
	)
	return CreateLeaveResponse{LeaveID: l.LeaveID}, nil
}

// GetAll returns every leave for admins and only the caller's own otherwise.
func (s *service) GetAll(ctx context.Context, employeeID string, isAdmin bool) ([]LeaveResponse, error) {
	if !isAdmin {
		return s.GetMine(ctx, employeeID)
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if employeeID == "" {
		return []LeaveResponse{}, nil
	}

	rows, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get own leaves failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) Update(ctx context.Context, employeeID, id string, req UpdateLeaveRequest) error {
	rid := contextutil.GetRequestID(ctx)

	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	affected, err := s.repo.UpdateOwnedPending(ctx, id, employeeID, map[string]any{
		"reason":     req.Reason,
		"type":       req.Type,
		"start_date": startDate,
		"end_date":   endDate,
	})
	if err != nil {
		s.logger.Error("update leave failed", zap.String("request_id", rid), zap.String("leave_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	if affected == 0 {
		s.logger.Warn("update leave rejected",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("employee_id", employeeID),
		)
		return leaveerrors.ErrNotFoundOrUnauthorized
	}

	s.logger.Info("update leave success", zap.String("request_id", rid), zap.String("leave_id", id))
	return nil
}

func (s *service) Delete(ctx context.Context, employeeID, id string) error {
	rid := contextutil.GetRequestID(ctx)

	affected, err := s.repo.DeleteOwnedPending(ctx, id, employeeID)
	if err != nil {
		s.logger.Error("delete leave failed", zap.String("request_id", rid), zap.String("leave_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return leaveerrors.ErrNotFoundOrUnauthorized
	}

	s.logger.Info("delete leave success", zap.String("request_id", rid), zap.String("leave_id", id))
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) error {
	rid := contextutil.GetRequestID(ctx)

	target, ok := NormalizeStatus(req.Status)
	if !ok {
		return leaveerrors.ErrInvalidStatus
	}

	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !s.canTransition(current.Status, target) {
			s.logger.Warn("leave status transition rejected",
				zap.String("request_id", rid),
				zap.String("leave_id", id),
				zap.String("from_status", current.Status),
				zap.String("to_status", target),
			)
			return leaveerrors.ErrStatusFinal
		}

		affected, err := qtx.UpdateStatus(ctx, id, target)
		if err != nil {
			return err
		}
		if affected == 0 {
			return leaveerrors.ErrLeaveNotFound
		}
		return nil
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("leave status updated",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", target),
	)
	return nil
}

func (s *service) StatusCounts(ctx context.Context) (StatusCountsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("leave status counts failed", zap.Error(err))
		return StatusCountsResponse{}, mapRepositoryError(err)
	}
	return StatusCountsResponse{
		Pending:  counts.Pending,
		Approved: counts.Approved,
		Rejected: counts.Rejected,
	}, nil
}

// canTransition allows anything out of pending. Decided leaves stay decided
// unless reopening is enabled; re-applying the same decision is a no-op.
func (s *service) canTransition(from, to string) bool {
	if from == StatusPending || from == to {
		return true
	}
	return s.opts.AllowReopen
}

// NormalizeStatus lower-cases v and reports whether it is a known leave status.
func NormalizeStatus(v string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(v))
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, true
	default:
		return "", false
	}
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func mapRepositoryError(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsNotFound(err) {
		return leaveerrors.ErrLeaveNotFound
	}
	if database.IsForeignKeyViolation(err) {
		return leaveerrors.ErrNoEmployee
	}
	return apperror.Storage(err)
}
