package middleware

import (
	"staffly/internal/rbac"
	"staffly/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWithAppError(c, apperror.Storage(err))
			return
		}

		if !allowed {
			abortWithAppError(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}
