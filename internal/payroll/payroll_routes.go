package payroll

import (
	"staffly/internal/middleware"
	"staffly/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	tokens middleware.TokenParser,
	rbacService middleware.RBACService,
	rdb redis.Cmdable,
) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware(tokens))
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.GetAll)
		payrolls.GET("/my-payrolls", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionReadOwn), handler.GetMine)
		payrolls.GET("/status-counts", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionReadOwn), handler.StatusCounts)

		generate := []gin.HandlerFunc{
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionGenerate),
		}
		if rdb != nil {
			generate = append(generate, middleware.Idempotency(rdb))
		}
		payrolls.POST("/generate", append(generate, handler.Generate)...)

		payrolls.PUT("/employees/:employee_id/salary",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionManage),
			handler.Manage,
		)
		payrolls.PUT("/:payroll_id/status",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionUpdate),
			handler.UpdateStatus,
		)
		payrolls.DELETE("/:payroll_id",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionDelete),
			handler.Delete,
		)
	}
}
