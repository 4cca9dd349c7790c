package app

import (
	"time"

	"staffly/internal/auth"
	"staffly/internal/auth/token"
	"staffly/internal/department"
	"staffly/internal/employee"
	"staffly/internal/leave"
	"staffly/internal/messaging/kafka"
	"staffly/internal/middleware"
	"staffly/internal/payroll"
	"staffly/internal/rbac"
	"staffly/internal/rbac/infra"
	"staffly/internal/shared/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	gormDB *gorm.DB,
	rdb redis.Cmdable,
	logger *zap.Logger,
) error {
	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderIdempotencyKey, middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
	)

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPolicy(), logger)
	if err != nil {
		return err
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	// --- Services ---
	authService := auth.NewService(authRepo, tokens, logger)
	departmentService := department.NewService(departmentRepo, logger)
	employeeService := employee.NewService(gormDB, employeeRepo, outboxRepo, logger)
	leaveService := leave.NewService(gormDB, leaveRepo, leave.Options{
		AllowReopen: cfg.Policy.LeaveAllowReopen,
	}, logger)
	payrollService := payroll.NewService(gormDB, payrollRepo, outboxRepo, rdb, payroll.Options{
		ManageAtomic: cfg.Policy.PayrollManageAtomic,
	}, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, tokens)
		department.RegisterRoutes(api, departmentHandler, tokens, rbacService)
		employee.RegisterRoutes(api, employeeHandler, tokens, rbacService)
		leave.RegisterRoutes(api, leaveHandler, tokens, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, tokens, rbacService, rdb)
	}

	logger.Info("modules registered",
		zap.Bool("payroll_manage_atomic", cfg.Policy.PayrollManageAtomic),
		zap.Bool("leave_allow_reopen", cfg.Policy.LeaveAllowReopen),
		zap.Bool("redis", rdb != nil),
	)
	return nil
}
