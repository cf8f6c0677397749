package routes

import (
	"passport/internal/api/middleware"
	"passport/internal/config"
	"passport/internal/handlers"
	"passport/internal/services"
	"passport/internal/tasks/rate"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, limiter *rate.LoginRateLimiter) {
	issuer := services.NewTokenIssuer(db)
	authHandler := handlers.NewAuthHandler(db, issuer, limiter)

	base := e.Group("/api/v1")

	// Public auth routes group
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/validate-email", authHandler.ValidateEmail)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Protected auth routes (require authentication)
	protectedAuth := base.Group("/auth")
	authMiddleware := middleware.NewAuthMiddleware(db)
	protectedAuth.Use(authMiddleware.Middleware())

	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.GET("/me", authHandler.GetMe)
}
