package middleware

import (
	"net/http"
	"strings"

	autherrors "staffly/internal/auth/errors"
	"staffly/internal/auth/token"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/contextutil"
	"staffly/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// TokenParser verifies a bearer credential.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if strings.TrimSpace(tokenString) == "" {
			abortWithAppError(c, autherrors.ErrTokenMissing)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abortWithAppError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextutil.WithEmployeeID(ctx, claims.EmployeeID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextRole)
		if userRole == "" {
			abortWithAppError(c, apperror.ErrForbidden)
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		abortWithAppError(c, apperror.ErrForbidden)
	}
}

func abortWithAppError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status == 0 {
		httpErr.Status = http.StatusInternalServerError
	}
	response.AbortWithError(c, httpErr.Status, httpErr.Code, httpErr.Message)
}
