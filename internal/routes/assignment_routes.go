package routes

import (
	"passport/internal/api/middleware"
	"passport/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupAssignmentRoutes wires the assignment graph endpoints. The group is
// expected to already carry the auth middleware.
func SetupAssignmentRoutes(g *echo.Group, db *gorm.DB) {
	assignmentHandler := handlers.NewAssignmentHandler(db)

	assignments := g.Group("/assignments")

	// Reads are guarded inside the handler so profiles can inspect their own
	// effective permissions without assignments:read.
	assignments.GET("/effective", assignmentHandler.ListEffectivePermissions)

	writes := assignments.Group("")
	writes.Use(middleware.RequirePermissions("assignments:create", "assignments:delete"))
	writes.POST("/roles", assignmentHandler.GrantRole)
	writes.POST("/roles/revoke", assignmentHandler.RevokeRole)
	writes.POST("/permissions", assignmentHandler.GrantPermission)
	writes.POST("/permissions/revoke", assignmentHandler.RevokePermission)

	// Credential records, filtered to the caller's own unless superuser
	g.GET("/tokens", assignmentHandler.ListTokens)
}
