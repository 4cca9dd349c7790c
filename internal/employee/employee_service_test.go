package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"staffly/internal/employee"
	employeeerrors "staffly/internal/employee/errors"
	employeeMock "staffly/internal/employee/mock"
	"staffly/internal/events"
	"staffly/internal/messaging/kafka"
	kafkaMock "staffly/internal/messaging/kafka/mock"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/contextutil"
	"staffly/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *employeeMock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func fakeHash(password string) (string, error) {
	return "hashed:" + password, nil
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock := testutil.NewGormMock(t)
	repo := employeeMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithHasher(db, repo, outboxRepo, fakeHash, zap.NewNop())

	return &serviceDeps{
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outboxRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Phone:        "0812345678",
		DepartmentID: "DEP0000001",
		Username:     "ada",
		Password:     "secret1",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-create")

	t.Run("success - user and employee inserted together", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		var createdUserID string

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().DepartmentExists(ctx, "DEP0000001").Return(true, nil)
		deps.repo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u *employee.User) error {
				assert.True(t, strings.HasPrefix(u.UserID, "UR"))
				assert.Equal(t, "hashed:secret1", u.Password)
				assert.Equal(t, employee.RoleUser, u.Role)
				createdUserID = u.UserID
				return nil
			})
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Len(t, e.EmployeeID, 10)
				assert.True(t, strings.HasPrefix(e.EmployeeID, "EMP"))
				assert.Equal(t, createdUserID, e.UserID)
				assert.Equal(t, "UR"+e.EmployeeID[3:], e.UserID)
				assert.Equal(t, "DEP0000001", *e.DepartmentID)
				assert.False(t, e.BasicSalary.Valid)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeCreatedType, ev.EventType)
				assert.Equal(t, events.EmployeeLifecycleTopic, ev.Topic)
				assert.Equal(t, "req-create", ev.RequestID)

				var payload events.EmployeeCreatedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, ev.AggregateID, payload.EmployeeID)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, createdUserID, resp.UserID)
		assert.Equal(t, "UR"+resp.EmployeeID[3:], resp.UserID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate username rolls back before any insert", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(true, nil)

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrUsernameExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back before any insert", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(true, nil)

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmailExists)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "Email already exists", httpErr.Message)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unique index race on user insert maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().DepartmentExists(ctx, "DEP0000001").Return(true, nil)
		deps.repo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_username"})

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrUsernameExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("user id collision maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().DepartmentExists(ctx, "DEP0000001").Return(true, nil)
		deps.repo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeIDTaken)
		assert.Equal(t, apperror.CodeConflict, apperror.ToHTTP(err).Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("serialization failure from a concurrent create is a conflict", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().DepartmentExists(ctx, "DEP0000001").Return(true, nil)
		deps.repo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "40001"})

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrConcurrentUpdate)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, apperror.CodeConflict, httpErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("employee insert failure rolls back the user insert", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().DepartmentExists(ctx, "DEP0000001").Return(true, nil)
		deps.repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection reset"))

		_, err := deps.service.Create(ctx, validCreateRequest())

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 500, httpErr.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown department", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().DepartmentExists(ctx, "DEP0000001").Return(false, nil)

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrDepartmentNotFound)
	})

	t.Run("admin role is kept", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()
		req.Role = employee.RoleAdmin
		req.DepartmentID = ""

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UsernameExists(ctx, "ada", "").Return(false, nil)
		deps.repo.EXPECT().EmailExists(ctx, "ada@example.com", "").Return(false, nil)
		deps.repo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u *employee.User) error {
				assert.Equal(t, employee.RoleAdmin, u.Role)
				return nil
			})
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Nil(t, e.DepartmentID)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		_, err := deps.service.Create(ctx, req)
		assert.NoError(t, err)
	})
}

func strPtr(v string) *string { return &v }

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	current := &employee.Employee{EmployeeID: "EMP0000001", UserID: "UR0000001", Email: "old@example.com"}

	t.Run("success - both tables updated in one transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.UpdateEmployeeRequest{
			FirstName: strPtr("Grace"),
			Email:     strPtr("grace@example.com"),
			Username:  strPtr("grace"),
			Password:  strPtr("newpass"),
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, "EMP0000001").Return(current, nil)
		deps.repo.EXPECT().EmailExists(ctx, "grace@example.com", "EMP0000001").Return(false, nil)
		deps.repo.EXPECT().UsernameExists(ctx, "grace", "UR0000001").Return(false, nil)
		deps.repo.EXPECT().
			UpdateFields(ctx, "EMP0000001", map[string]any{
				"first_name": "Grace",
				"email":      "grace@example.com",
			}).
			Return(nil)
		deps.repo.EXPECT().
			UpdateUserFields(ctx, "UR0000001", map[string]any{
				"username": "grace",
				"password": "hashed:newpass",
			}).
			Return(nil)
		deps.repo.EXPECT().
			FindByID(ctx, "EMP0000001").
			Return(&employee.EmployeeDetail{
				Employee: employee.Employee{EmployeeID: "EMP0000001", FirstName: "Grace", Email: "grace@example.com"},
				Username: "grace",
			}, nil)

		resp, err := deps.service.Update(ctx, "EMP0000001", req)

		assert.NoError(t, err)
		assert.Equal(t, "Grace", resp.FirstName)
		assert.Equal(t, "grace", resp.Username)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("username taken by another user", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, "EMP0000001").Return(current, nil)
		deps.repo.EXPECT().UsernameExists(ctx, "taken", "UR0000001").Return(true, nil)

		_, err := deps.service.Update(ctx, "EMP0000001", employee.UpdateEmployeeRequest{Username: strPtr("taken")})

		assert.ErrorIs(t, err, employeeerrors.ErrUsernameExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("clearing department writes null", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, "EMP0000001").Return(current, nil)
		deps.repo.EXPECT().
			UpdateFields(ctx, "EMP0000001", map[string]any{"department_id": nil}).
			Return(nil)
		deps.repo.EXPECT().
			FindByID(ctx, "EMP0000001").
			Return(&employee.EmployeeDetail{Employee: *current}, nil)

		_, err := deps.service.Update(ctx, "EMP0000001", employee.UpdateEmployeeRequest{DepartmentID: strPtr("")})
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, "EMP404").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, "EMP404", employee.UpdateEmployeeRequest{FirstName: strPtr("x")})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	current := &employee.Employee{EmployeeID: "EMP0000001", UserID: "UR0000001"}

	t.Run("success - employee then user", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		gomock.InOrder(
			deps.repo.EXPECT().FindEmployee(ctx, "EMP0000001").Return(current, nil),
			deps.repo.EXPECT().Delete(ctx, "EMP0000001").Return(int64(1), nil),
			deps.repo.EXPECT().DeleteUser(ctx, "UR0000001").Return(nil),
		)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeDeletedType, ev.EventType)
				return nil
			})

		assert.NoError(t, deps.service.Delete(ctx, "EMP0000001"))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, "EMP404").Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, "EMP404")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("payroll history blocks delete", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, "EMP0000001").Return(current, nil)
		deps.repo.EXPECT().
			Delete(ctx, "EMP0000001").
			Return(int64(0), &pgconn.PgError{Code: "23503", ConstraintName: "fk_payrolls_employee"})

		err := deps.service.Delete(ctx, "EMP0000001")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeHasHistory)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestEmployeeService_UpdateSalary(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.UpdateSalaryRequest{
			BasicSalary: decPtr("30000"),
			Allowance:   decPtr("5000"),
			Deduction:   decPtr("2000"),
		}

		deps.repo.EXPECT().
			FindEmployee(ctx, "EMP0000001").
			Return(&employee.Employee{EmployeeID: "EMP0000001", FirstName: "Ada", LastName: "Lovelace"}, nil)
		deps.repo.EXPECT().
			UpdateSalary(ctx, "EMP0000001", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, f employee.SalaryFields) (int64, error) {
				assert.True(t, f.BasicSalary.Equal(decimal.NewFromInt(30000)))
				assert.True(t, employee.NetSalary(f).Equal(decimal.NewFromInt(33000)))
				return 1, nil
			})

		resp, err := deps.service.UpdateSalary(ctx, "EMP0000001", req)

		assert.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", resp.Name)
	})

	t.Run("negative component", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.UpdateSalary(ctx, "EMP0000001", employee.UpdateSalaryRequest{
			BasicSalary: decPtr("-1"),
			Allowance:   decPtr("0"),
			Deduction:   decPtr("0"),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrNegativeSalary)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().FindEmployee(ctx, "EMP404").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.UpdateSalary(ctx, "EMP404", employee.UpdateSalaryRequest{
			BasicSalary: decPtr("1"),
			Allowance:   decPtr("1"),
			Deduction:   decPtr("1"),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Reads(t *testing.T) {
	ctx := context.Background()
	dept := "Engineering"
	detail := employee.EmployeeDetail{
		Employee: employee.Employee{
			EmployeeID:  "EMP0000001",
			FirstName:   "Ada",
			BasicSalary: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		DepartmentName: &dept,
		Username:       "ada",
		Role:           "User",
	}

	t.Run("get all maps null salary to zero", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindAll(ctx).Return([]employee.EmployeeDetail{detail}, nil)

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Engineering", resp[0].DepartmentName)
		assert.True(t, resp[0].BasicSalary.Equal(decimal.NewFromInt(1000)))
		assert.True(t, resp[0].Allowance.IsZero())
	})

	t.Run("current without employee id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetCurrent(ctx, "")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("current", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, "EMP0000001").Return(&detail, nil)

		resp, err := deps.service.GetCurrent(ctx, "EMP0000001")

		assert.NoError(t, err)
		assert.Equal(t, "ada", resp.Username)
	})

	t.Run("count", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Count(ctx).Return(int64(7), nil)

		resp, err := deps.service.Count(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), resp.TotalEmployees)
	})

	t.Run("storage failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Count(ctx).Return(int64(0), errors.New("db down"))

		_, err := deps.service.Count(ctx)
		assert.Equal(t, 500, apperror.ToHTTP(err).Status)
	})
}
