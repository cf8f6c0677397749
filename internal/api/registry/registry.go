package registry

import (
	"github.com/labstack/echo/v4"

	"passport/internal/api/controllers"
	"passport/internal/api/middleware"
	"passport/internal/models"
	"passport/internal/services"

	"gorm.io/gorm"
)

// 📝 RegisterCRUDRoutes registers CRUD routes for the graph entities - godoc
// @Summary Register CRUD routes for the graph entities
// @Description Register CRUD routes for the graph entities
// @Accept json
// @Produce json
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB) {
	// Platforms
	platformService := services.NewBaseService(db, models.Platform{})
	platformController := controllers.NewBaseController(platformService)
	// Every route carries exactly its own verb permission
	platformGroup := g.Group("/platforms")

	// @Summary List platforms
	// @Description Get a list of all platforms
	// @Accept json
	// @Produce json
	// @Success 200 {array} models.Platform
	// @Failure 401 {object} map[string]string "Unauthorized"
	// @Failure 403 {object} map[string]string "Forbidden"
	// @Router /api/v1/platforms [get]
	platformGroup.GET("", platformController.List, middleware.RequirePermissions("platforms:read"))
	// @Summary Get platform
	// @Description Get a platform by ID
	// @Accept json
	// @Produce json
	// @Param id path int true "Platform ID"
	// @Success 200 {object} models.Platform
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /api/v1/platforms/{id} [get]
	platformGroup.GET("/:id", platformController.Get, middleware.RequirePermissions("platforms:read"))
	// @Summary Create platform
	// @Description Create a new platform
	// @Accept json
	// @Produce json
	// @Param platform body models.Platform true "Platform object"
	// @Success 201 {object} models.Platform
	// @Failure 400 {object} map[string]string "Bad request"
	// @Router /api/v1/platforms [post]
	platformGroup.POST("", platformController.Create, middleware.RequirePermissions("platforms:create"))
	// @Summary Update platform
	// @Description Update an existing platform
	// @Accept json
	// @Produce json
	// @Param id path int true "Platform ID"
	// @Success 200 {object} models.Platform
	// @Router /api/v1/platforms/{id} [put]
	platformGroup.PUT("/:id", platformController.Update, middleware.RequirePermissions("platforms:update"))
	// @Summary Delete platform
	// @Description Delete a platform
	// @Param id path int true "Platform ID"
	// @Success 204 "No content"
	// @Router /api/v1/platforms/{id} [delete]
	platformGroup.DELETE("/:id", platformController.Delete, middleware.RequirePermissions("platforms:delete"))

	// Roles
	roleService := services.NewBaseService(db, models.Role{})
	roleController := controllers.NewBaseController(roleService)
	roleGroup := g.Group("/roles")
	// @Summary List roles
	// @Description Get a list of all roles
	// @Accept json
	// @Produce json
	// @Success 200 {array} models.Role
	// @Router /api/v1/roles [get]
	roleGroup.GET("", roleController.List, middleware.RequirePermissions("roles:read"))
	// @Summary Get role
	// @Description Get a role by ID
	// @Param id path int true "Role ID"
	// @Success 200 {object} models.Role
	// @Router /api/v1/roles/{id} [get]
	roleGroup.GET("/:id", roleController.Get, middleware.RequirePermissions("roles:read"))

	// @Summary Create role
	// @Description Create a new role
	// @Param role body models.Role true "Role object"
	// @Success 201 {object} models.Role
	// @Router /api/v1/roles [post]
	roleGroup.POST("", roleController.Create, middleware.RequirePermissions("roles:create"))
	// @Summary Update role
	// @Description Update an existing role
	// @Param id path int true "Role ID"
	// @Success 200 {object} models.Role
	// @Router /api/v1/roles/{id} [put]
	roleGroup.PUT("/:id", roleController.Update, middleware.RequirePermissions("roles:update"))
	// @Summary Delete role
	// @Description Delete a role
	// @Param id path int true "Role ID"
	// @Success 204 "No content"
	// @Router /api/v1/roles/{id} [delete]
	roleGroup.DELETE("/:id", roleController.Delete, middleware.RequirePermissions("roles:delete"))

	// Permissions
	permissionService := services.NewBaseService(db, models.Permission{})
	permissionController := controllers.NewBaseController(permissionService)
	permissionGroup := g.Group("/permissions")
	// @Summary List permissions
	// @Description Get a list of all permissions
	// @Success 200 {array} models.Permission
	// @Router /api/v1/permissions [get]
	permissionGroup.GET("", permissionController.List, middleware.RequirePermissions("permissions:read"))
	// @Summary Get permission
	// @Description Get a permission by ID
	// @Param id path int true "Permission ID"
	// @Success 200 {object} models.Permission
	// @Router /api/v1/permissions/{id} [get]
	permissionGroup.GET("/:id", permissionController.Get, middleware.RequirePermissions("permissions:read"))

	// @Summary Create permission
	// @Description Create a new permission
	// @Param permission body models.Permission true "Permission object"
	// @Success 201 {object} models.Permission
	// @Router /api/v1/permissions [post]
	permissionGroup.POST("", permissionController.Create, middleware.RequirePermissions("permissions:create"))
	// @Summary Update permission
	// @Description Update an existing permission
	// @Param id path int true "Permission ID"
	// @Success 200 {object} models.Permission
	// @Router /api/v1/permissions/{id} [put]
	permissionGroup.PUT("/:id", permissionController.Update, middleware.RequirePermissions("permissions:update"))
	// @Summary Delete permission
	// @Description Delete a permission
	// @Param id path int true "Permission ID"
	// @Success 204 "No content"
	// @Router /api/v1/permissions/{id} [delete]
	permissionGroup.DELETE("/:id", permissionController.Delete, middleware.RequirePermissions("permissions:delete"))

	// Profiles are managed through the auth endpoints; only reads here
	profileService := services.NewBaseService(db, models.Profile{})
	profileController := controllers.NewBaseController(profileService)
	profileGroup := g.Group("/profiles")
	profileGroup.Use(middleware.RequirePermissions("profiles:read"))
	// @Summary List profiles
	// @Description Get a list of all profiles
	// @Success 200 {array} models.Profile
	// @Router /api/v1/profiles [get]
	profileGroup.GET("", profileController.List)
	// @Summary Get profile
	// @Description Get a profile by ID
	// @Param id path int true "Profile ID"
	// @Success 200 {object} models.Profile
	// @Router /api/v1/profiles/{id} [get]
	profileGroup.GET("/:id", profileController.Get)
}
