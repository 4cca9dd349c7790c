package employee

import (
	"context"
	"strings"
	"time"

	employeeerrors "staffly/internal/employee/errors"
	"staffly/internal/events"
	"staffly/internal/messaging/kafka"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/contextutil"
	"staffly/internal/shared/database"
	"staffly/internal/shared/identifier"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetCurrent(ctx context.Context, employeeID string) (EmployeeResponse, error)
	Count(ctx context.Context) (CountResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	UpdateSalary(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher is swapped in tests to keep bcrypt out of the hot path.
type PasswordHasher func(password string) (string, error)

func BcryptHasher(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	hash   PasswordHasher
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	return NewServiceWithHasher(db, repo, outbox, BcryptHasher, logger...)
}

func NewServiceWithHasher(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	hasher PasswordHasher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if hasher == nil {
		hasher = BcryptHasher
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		hash:   hasher,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("username", req.Username),
		zap.String("email", req.Email),
	)

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResponse{}, apperror.Storage(err)
	}

	employeeID := identifier.NewEmployeeID()
	userID := identifier.UserIDFor(employeeID)

	err = database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := s.ensureUnique(ctx, qtx, req.Username, "", req.Email, ""); err != nil {
			return err
		}

		var departmentID *string
		if req.DepartmentID != "" {
			if err := ensureDepartment(ctx, qtx, req.DepartmentID); err != nil {
				return err
			}
			departmentID = &req.DepartmentID
		}

		if err := qtx.CreateUser(ctx, &User{
			UserID:   userID,
			Username: req.Username,
			Password: hashed,
			Role:     role,
		}); err != nil {
			return err
		}

		if err := qtx.Create(ctx, &Employee{
			EmployeeID:   employeeID,
			UserID:       userID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			DepartmentID: departmentID,
		}); err != nil {
			return err
		}

		return s.enqueue(ctx, tx, employeeID, events.EmployeeCreatedType, events.EmployeeCreatedEvent{
			EventType:  events.EmployeeCreatedType,
			RequestID:  rid,
			EmployeeID: employeeID,
			UserID:     userID,
			Role:       role,
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		s.logger.Warn("create employee failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("user_id", userID),
	)
	return CreateEmployeeResponse{EmployeeID: employeeID, UserID: userID}, nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) GetCurrent(ctx context.Context, employeeID string) (EmployeeResponse, error) {
	if employeeID == "" {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}
	return s.GetByID(ctx, employeeID)
}

func (s *service) Count(ctx context.Context) (CountResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("count employees failed", zap.Error(err))
		return CountResponse{}, mapRepositoryError(err)
	}
	return CountResponse{TotalEmployees: total}, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	var hashed string
	if req.Password != nil {
		h, err := s.hash(*req.Password)
		if err != nil {
			s.logger.Error("update employee hash password failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, apperror.Storage(err)
		}
		hashed = h
	}

	var updated *EmployeeDetail
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindEmployee(ctx, id)
		if err != nil {
			return err
		}

		employeeFields := map[string]any{}
		userFields := map[string]any{}

		if req.FirstName != nil {
			employeeFields["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			employeeFields["last_name"] = *req.LastName
		}
		if req.Email != nil && *req.Email != current.Email {
			if err := s.ensureUnique(ctx, qtx, "", "", *req.Email, id); err != nil {
				return err
			}
			employeeFields["email"] = *req.Email
		}
		if req.Phone != nil {
			employeeFields["phone"] = *req.Phone
		}
		if req.DepartmentID != nil {
			if *req.DepartmentID == "" {
				employeeFields["department_id"] = nil
			} else {
				if err := ensureDepartment(ctx, qtx, *req.DepartmentID); err != nil {
					return err
				}
				employeeFields["department_id"] = *req.DepartmentID
			}
		}

		if req.Username != nil {
			if err := s.ensureUnique(ctx, qtx, *req.Username, current.UserID, "", ""); err != nil {
				return err
			}
			userFields["username"] = *req.Username
		}
		if req.Password != nil {
			userFields["password"] = hashed
		}
		if req.Role != nil {
			userFields["role"] = *req.Role
		}

		if len(employeeFields) > 0 {
			if err := qtx.UpdateFields(ctx, id, employeeFields); err != nil {
				return err
			}
		}
		if len(userFields) > 0 {
			if err := qtx.UpdateUserFields(ctx, current.UserID, userFields); err != nil {
				return err
			}
		}

		updated, err = qtx.FindByID(ctx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("update employee failed",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update employee success", zap.String("request_id", rid), zap.String("employee_id", id))
	return mapToResponse(*updated), nil
}

// UpdateSalary assigns the salary base only. Existing payroll rows are not touched.
func (s *service) UpdateSalary(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if req.BasicSalary == nil || req.Allowance == nil || req.Deduction == nil {
		return SalaryResponse{}, apperror.RequiredField("Salary fields")
	}

	salary := SalaryFields{
		BasicSalary: *req.BasicSalary,
		Allowance:   *req.Allowance,
		Deduction:   *req.Deduction,
	}
	if salary.BasicSalary.IsNegative() || salary.Allowance.IsNegative() || salary.Deduction.IsNegative() {
		return SalaryResponse{}, employeeerrors.ErrNegativeSalary
	}

	empl, err := s.repo.FindEmployee(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	affected, err := s.repo.UpdateSalary(ctx, id, salary)
	if err != nil {
		s.logger.Error("update employee salary failed",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if affected == 0 {
		return SalaryResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	s.logger.Info("update employee salary success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("net", NetSalary(salary).StringFixed(2)),
	)

	return SalaryResponse{
		EmployeeID:  id,
		Name:        strings.TrimSpace(empl.FirstName + " " + empl.LastName),
		BasicSalary: salary.BasicSalary,
		Allowance:   salary.Allowance,
		Deduction:   salary.Deduction,
	}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested", zap.String("request_id", rid), zap.String("employee_id", id))

	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		empl, err := qtx.FindEmployee(ctx, id)
		if err != nil {
			return err
		}

		affected, err := qtx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return employeeerrors.ErrEmployeeNotFound
		}

		if err := qtx.DeleteUser(ctx, empl.UserID); err != nil {
			return err
		}

		return s.enqueue(ctx, tx, id, events.EmployeeDeletedType, events.EmployeeDeletedEvent{
			EventType:  events.EmployeeDeletedType,
			RequestID:  rid,
			EmployeeID: id,
			UserID:     empl.UserID,
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		s.logger.Warn("delete employee failed",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}

	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.String("employee_id", id))
	return nil
}

// ensureUnique checks username and email, skipping empty values. The unique
// indexes still catch races between this check and the insert.
func (s *service) ensureUnique(ctx context.Context, repo Repository, username, excludeUserID, email, excludeEmployeeID string) error {
	if username != "" {
		exists, err := repo.UsernameExists(ctx, username, excludeUserID)
		if err != nil {
			return err
		}
		if exists {
			return employeeerrors.ErrUsernameExists
		}
	}
	if email != "" {
		exists, err := repo.EmailExists(ctx, email, excludeEmployeeID)
		if err != nil {
			return err
		}
		if exists {
			return employeeerrors.ErrEmailExists
		}
	}
	return nil
}

func ensureDepartment(ctx context.Context, repo Repository, departmentID string) error {
	exists, err := repo.DepartmentExists(ctx, departmentID)
	if err != nil {
		return err
	}
	if !exists {
		return employeeerrors.ErrDepartmentNotFound
	}
	return nil
}

func (s *service) enqueue(ctx context.Context, tx *gorm.DB, employeeID, eventType string, payload any) error {
	if s.outbox == nil {
		return nil
	}
	event, err := kafka.NewOutboxEvent(ctx, events.AggregateEmployee, employeeID, eventType, events.EmployeeLifecycleTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

// NetSalary is basic + allowance - deduction.
func NetSalary(f SalaryFields) decimal.Decimal {
	return f.BasicSalary.Add(f.Allowance).Sub(f.Deduction)
}
