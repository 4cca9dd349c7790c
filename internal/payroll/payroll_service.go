package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"staffly/internal/events"
	"staffly/internal/messaging/kafka"
	payrollerrors "staffly/internal/payroll/errors"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/contextutil"
	"staffly/internal/shared/database"
	"staffly/internal/shared/identifier"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusCountsKey = "payroll:status_counts"
	// StatusCountsTTL bounds how long counts read before a concurrent write
	// can outlive that write's invalidation.
	StatusCountsTTL = 30 * time.Second

	// generateAttempts bounds regeneration after a payroll id collision.
	generateAttempts = 3

	constraintPayrollPK = "payrolls_pkey"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Manage(ctx context.Context, employeeID string, req ManagePayrollRequest) (ManagePayrollResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (StatusResponse, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context, q ListQuery) ([]PayrollResponse, error)
	GetMine(ctx context.Context, employeeID string, q ListQuery) ([]PayrollResponse, error)
	StatusCounts(ctx context.Context) (StatusCountsResponse, error)
}

// Options carries the payroll policy flags.
type Options struct {
	// ManageAtomic writes the employee salary base and the payroll row in one
	// transaction. When false the salary write commits on its own first.
	ManageAtomic bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    redis.Cmdable
	sf     *singleflight.Group
	opts   Options
	logger *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	rdb redis.Cmdable,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		opts:   opts,
		logger: l,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("generate payroll requested",
		zap.String("request_id", rid),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	if err := s.validatePeriod(req.Month, req.Year); err != nil {
		return GenerateResponse{}, err
	}

	var inserted int64
	var err error
	for attempt := 1; attempt <= generateAttempts; attempt++ {
		inserted, err = s.generateBatch(ctx, rid, req)
		if !isPayrollIDCollision(err) {
			break
		}
		s.logger.Warn("payroll id collision, regenerating batch",
			zap.String("request_id", rid),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		s.logger.Warn("generate payroll failed",
			zap.String("request_id", rid),
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		if database.IsSerializationFailure(err) {
			// a concurrent generation for the same period committed first
			return GenerateResponse{}, payrollerrors.ErrAlreadyGenerated
		}
		return GenerateResponse{}, mapRepositoryError(err)
	}

	s.invalidateStatusCounts(ctx)
	s.logger.Info("generate payroll success",
		zap.String("request_id", rid),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int64("generated", inserted),
	)

	return GenerateResponse{Month: req.Month, Year: req.Year, Generated: int(inserted)}, nil
}

// generateBatch runs one generation transaction with freshly drawn payroll ids.
func (s *service) generateBatch(ctx context.Context, rid string, req GenerateRequest) (int64, error) {
	var inserted int64
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		payees, err := qtx.FindPayeesWithoutPayroll(ctx, req.Month, req.Year)
		if err != nil {
			return err
		}
		if len(payees) == 0 {
			return payrollerrors.ErrAlreadyGenerated
		}

		rows := make([]Payroll, len(payees))
		ids := make([]string, len(payees))
		for i, p := range payees {
			rows[i] = Payroll{
				PayrollID:     identifier.NewPayrollID(),
				EmployeeID:    p.EmployeeID,
				Month:         req.Month,
				Year:          req.Year,
				NetSalary:     p.NetSalary(),
				PaymentStatus: StatusPending,
			}
			ids[i] = rows[i].PayrollID
		}

		inserted, err = qtx.CreateBatch(ctx, rows)
		if err != nil {
			return err
		}
		if inserted == 0 {
			// a concurrent generation committed every row first
			return payrollerrors.ErrAlreadyGenerated
		}
		if inserted != int64(len(rows)) {
			// which ids lost the race is unknown
			ids = nil
		}

		return s.enqueue(ctx, tx, periodKey(req.Month, req.Year), events.PayrollGeneratedType, events.PayrollGeneratedEvent{
			EventType:  events.PayrollGeneratedType,
			RequestID:  rid,
			Month:      req.Month,
			Year:       req.Year,
			Count:      int(inserted),
			PayrollIDs: ids,
			OccurredAt: s.opts.Now().UTC(),
		})
	})
	return inserted, err
}

func (s *service) Manage(ctx context.Context, employeeID string, req ManagePayrollRequest) (ManagePayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("manage payroll requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Bool("atomic", s.opts.ManageAtomic),
	)

	if err := s.validatePeriod(req.Month, req.Year); err != nil {
		return ManagePayrollResponse{}, err
	}
	if req.BasicSalary == nil || req.Allowance == nil || req.Deduction == nil || req.NetSalary == nil {
		return ManagePayrollResponse{}, apperror.RequiredField("salary fields")
	}
	if req.BasicSalary.IsNegative() || req.Allowance.IsNegative() || req.Deduction.IsNegative() {
		return ManagePayrollResponse{}, payrollerrors.ErrNegativeSalary
	}

	salary := SalaryBase{
		BasicSalary: *req.BasicSalary,
		Allowance:   *req.Allowance,
		Deduction:   *req.Deduction,
	}

	var resp ManagePayrollResponse
	upsert := func(qtx Repository) error {
		out, err := s.upsertPayroll(ctx, qtx, employeeID, req)
		resp = out
		return err
	}

	var err error
	if s.opts.ManageAtomic {
		err = database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
			qtx := s.repo.WithTx(tx)
			if err := writeSalary(ctx, qtx, employeeID, salary); err != nil {
				return err
			}
			return upsert(qtx)
		})
	} else {
		err = writeSalary(ctx, s.repo, employeeID, salary)
		if err == nil {
			err = database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
				return upsert(s.repo.WithTx(tx))
			})
		}
	}
	if err != nil {
		s.logger.Warn("manage payroll failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		if database.IsSerializationFailure(err) {
			// a concurrent request created the row for this period first
			return ManagePayrollResponse{}, payrollerrors.ErrPayrollExists
		}
		return ManagePayrollResponse{}, mapRepositoryError(err)
	}

	if resp.Created {
		s.invalidateStatusCounts(ctx)
	}
	s.logger.Info("manage payroll success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("payroll_id", resp.PayrollID),
		zap.Bool("created", resp.Created),
	)
	return resp, nil
}

// upsertPayroll stores the caller's net salary as given; it is not recomputed.
func (s *service) upsertPayroll(ctx context.Context, repo Repository, employeeID string, req ManagePayrollRequest) (ManagePayrollResponse, error) {
	resp := ManagePayrollResponse{
		EmployeeID:    employeeID,
		Month:         req.Month,
		Year:          req.Year,
		NetSalary:     *req.NetSalary,
		PaymentStatus: StatusPending,
	}

	existing, err := repo.FindByPeriod(ctx, employeeID, req.Month, req.Year)
	switch {
	case database.IsNotFound(err):
		p := &Payroll{
			PayrollID:     identifier.NewPayrollID(),
			EmployeeID:    employeeID,
			Month:         req.Month,
			Year:          req.Year,
			NetSalary:     *req.NetSalary,
			PaymentStatus: StatusPending,
		}
		if err := repo.Create(ctx, p); err != nil {
			return ManagePayrollResponse{}, err
		}
		resp.PayrollID = p.PayrollID
		resp.Created = true
		return resp, nil
	case err != nil:
		return ManagePayrollResponse{}, err
	}

	if existing.IsPaid() {
		return ManagePayrollResponse{}, payrollerrors.ErrPaidPayroll
	}

	affected, err := repo.UpdateNetSalary(ctx, existing.PayrollID, *req.NetSalary)
	if err != nil {
		return ManagePayrollResponse{}, err
	}
	if affected == 0 {
		return ManagePayrollResponse{}, payrollerrors.ErrPaidPayroll
	}

	resp.PayrollID = existing.PayrollID
	resp.PaymentStatus = existing.PaymentStatus
	return resp, nil
}

func writeSalary(ctx context.Context, repo Repository, employeeID string, salary SalaryBase) error {
	affected, err := repo.UpdateEmployeeSalary(ctx, employeeID, salary)
	if err != nil {
		return err
	}
	if affected == 0 {
		return payrollerrors.ErrEmployeeNotFound
	}
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (StatusResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	status, ok := NormalizeStatus(req.Status)
	if !ok {
		return StatusResponse{}, payrollerrors.ErrInvalidStatus
	}

	var paymentDate *time.Time
	if status == StatusPaid {
		now := s.opts.Now().UTC()
		paymentDate = &now
	}

	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current.IsPaid() {
			return payrollerrors.ErrPaidPayroll
		}

		affected, err := qtx.UpdateStatus(ctx, id, status, paymentDate)
		if err != nil {
			return err
		}
		if affected == 0 {
			return payrollerrors.ErrPaidPayroll
		}

		return s.enqueue(ctx, tx, id, events.PayrollStatusChangedType, events.PayrollStatusChangedEvent{
			EventType:   events.PayrollStatusChangedType,
			RequestID:   rid,
			PayrollID:   id,
			EmployeeID:  current.EmployeeID,
			Status:      status,
			PaymentDate: paymentDate,
			OccurredAt:  s.opts.Now().UTC(),
		})
	})
	if err != nil {
		s.logger.Warn("update payroll status failed",
			zap.String("request_id", rid),
			zap.String("payroll_id", id),
			zap.String("status", status),
			zap.Error(err),
		)
		return StatusResponse{}, mapRepositoryError(err)
	}

	s.invalidateStatusCounts(ctx)
	s.logger.Info("payroll status updated",
		zap.String("request_id", rid),
		zap.String("payroll_id", id),
		zap.String("status", status),
	)

	return StatusResponse{
		PayrollID:     id,
		PaymentStatus: status,
		PaymentDate:   formatTimePtr(paymentDate),
	}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current.IsPaid() {
			return payrollerrors.ErrDeletePaid
		}

		affected, err := qtx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return payrollerrors.ErrDeletePaid
		}

		return s.enqueue(ctx, tx, id, events.PayrollDeletedType, events.PayrollDeletedEvent{
			EventType:  events.PayrollDeletedType,
			RequestID:  rid,
			PayrollID:  id,
			EmployeeID: current.EmployeeID,
			OccurredAt: s.opts.Now().UTC(),
		})
	})
	if err != nil {
		s.logger.Warn("delete payroll failed",
			zap.String("request_id", rid),
			zap.String("payroll_id", id),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}

	s.invalidateStatusCounts(ctx)
	s.logger.Info("delete payroll success", zap.String("request_id", rid), zap.String("payroll_id", id))
	return nil
}

func (s *service) GetAll(ctx context.Context, q ListQuery) ([]PayrollResponse, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *service) GetMine(ctx context.Context, employeeID string, q ListQuery) ([]PayrollResponse, error) {
	if employeeID == "" {
		return []PayrollResponse{}, nil
	}
	filter, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = employeeID
	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter Filter) ([]PayrollResponse, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list payrolls failed",
			zap.String("employee_id", filter.EmployeeID),
			zap.Int("month", filter.Month),
			zap.Int("year", filter.Year),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

// StatusCounts is read through the cache; concurrent misses share one query.
func (s *service) StatusCounts(ctx context.Context) (StatusCountsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, StatusCountsKey).Result(); err == nil {
			var resp StatusCountsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("status counts cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(StatusCountsKey, func() (any, error) {
		counts, err := s.repo.CountByStatus(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := StatusCountsResponse{Paid: counts.Paid, Unpaid: counts.Unpaid}
		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, StatusCountsKey, string(data), StatusCountsTTL).Err(); err != nil {
					s.logger.Warn("status counts cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("payroll status counts failed", zap.Error(err))
		return StatusCountsResponse{}, err
	}
	return v.(StatusCountsResponse), nil
}

func (s *service) invalidateStatusCounts(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, StatusCountsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate payroll status counts cache",
			zap.String("key", StatusCountsKey),
			zap.Error(err),
		)
	}
}

func (s *service) enqueue(ctx context.Context, tx *gorm.DB, aggregateID, eventType string, payload any) error {
	if s.outbox == nil {
		return nil
	}
	event, err := kafka.NewOutboxEvent(ctx, events.AggregatePayroll, aggregateID, eventType, events.PayrollLifecycleTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) validatePeriod(month, year int) error {
	if month == 0 || year == 0 {
		return payrollerrors.ErrPeriodRequired
	}
	if month < 1 || month > 12 {
		return payrollerrors.ErrInvalidMonth
	}
	if year < minYear || year > s.opts.Now().Year() {
		return payrollerrors.ErrInvalidYear
	}
	return nil
}

// NormalizeStatus lower-cases v and reports whether it is a payment status.
func NormalizeStatus(v string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(v))
	switch status {
	case StatusPending, StatusPaid:
		return status, true
	default:
		return "", false
	}
}

func parseFilter(q ListQuery) (Filter, error) {
	var f Filter
	month, err := parseFilterValue(q.Month)
	if err != nil || month < 0 || month > 12 {
		return Filter{}, payrollerrors.ErrInvalidMonth
	}
	year, err := parseFilterValue(q.Year)
	if err != nil || year < 0 {
		return Filter{}, payrollerrors.ErrInvalidYear
	}
	f.Month, f.Year = month, year
	return f, nil
}

func parseFilterValue(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func periodKey(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func mapRepositoryError(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsNotFound(err) {
		return payrollerrors.ErrPayrollNotFound
	}
	if database.IsUniqueViolation(err) {
		return payrollerrors.ErrPayrollExists
	}
	if database.IsForeignKeyViolation(err) {
		return payrollerrors.ErrEmployeeNotFound
	}
	if database.IsSerializationFailure(err) {
		return payrollerrors.ErrConcurrentUpdate
	}
	return apperror.Storage(err)
}

// isPayrollIDCollision reports a random payroll id that hit an existing row.
func isPayrollIDCollision(err error) bool {
	return database.IsUniqueViolation(err) && database.ConstraintName(err) == constraintPayrollPK
}
