package leave

import (
	"staffly/internal/middleware"
	"staffly/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	tokens middleware.TokenParser,
	rbacService middleware.RBACService,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(tokens))
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.GetAll)
		leaves.GET("/my-leaves", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadOwn), handler.GetMine)
		leaves.GET("/status-counts", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.StatusCounts)
		leaves.GET("/approved", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.ApprovedCount)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.PendingCount)

		leaves.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCreate),
			handler.Create,
		)
		leaves.PUT("/:leave_id/status",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove),
			handler.UpdateStatus,
		)
		leaves.PUT("/:leave_id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionUpdate),
			handler.Update,
		)
		leaves.DELETE("/:leave_id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionDelete),
			handler.Delete,
		)
	}
}
