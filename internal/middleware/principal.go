package middleware

import (
	"github.com/gin-gonic/gin"
)

// Keys set on the gin context by AuthMiddleware.
const (
	ContextUserID     = "user_id"
	ContextEmployeeID = "employee_id"
	ContextUsername   = "username"
	ContextRole       = "role"
)

const roleAdmin = "Admin"

// Principal is the authenticated caller.
type Principal struct {
	UserID     string
	EmployeeID string
	Username   string
	Role       string
}

func (p Principal) IsAdmin() bool {
	return p.Role == roleAdmin
}

// GetPrincipal reads the caller set by AuthMiddleware. ok is false on unauthenticated routes.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	p := Principal{
		UserID:     c.GetString(ContextUserID),
		EmployeeID: c.GetString(ContextEmployeeID),
		Username:   c.GetString(ContextUsername),
		Role:       c.GetString(ContextRole),
	}
	return p, p.UserID != ""
}
