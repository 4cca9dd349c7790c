package auth

import (
	"staffly/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, tokens middleware.TokenParser) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(tokens), middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
