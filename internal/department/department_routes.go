package department

import (
	"staffly/internal/middleware"
	"staffly/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	tokens middleware.TokenParser,
	rbacService middleware.RBACService,
) {
	departments := r.Group("/departments")

	departments.Use(middleware.AuthMiddleware(tokens))

	{
		departments.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionRead), h.GetAll)
		departments.GET("/total", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionRead), h.Count)
	}
}
