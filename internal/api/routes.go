package api

import (
	"net/http"

	"passport/internal/api/middleware"
	"passport/internal/api/registry"
	"passport/internal/routes"

	_ "passport/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Passport")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.db)
	api.Use(auth.Middleware())

	// Register CRUD routes for the graph entities
	registry.RegisterCRUDRoutes(api, s.db)

	// Assignment and credential endpoints
	routes.SetupAssignmentRoutes(api, s.db)
}
