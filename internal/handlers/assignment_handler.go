package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"passport/internal/api/middleware"
	"passport/internal/api/validator"
	"passport/internal/models"
	"passport/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AssignmentHandler manages the ternary assignment relations and the
// derived effective-permission reads.
type AssignmentHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentHandler(db *gorm.DB) *AssignmentHandler {
	return &AssignmentHandler{db: db, log: logger.New("AssignmentHandler")}
}

func assignmentStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrAlreadyAssigned):
		return http.StatusConflict, "assignment already active"
	case errors.Is(err, models.ErrNotAssigned):
		return http.StatusNotFound, "no active assignment"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// GrantRole activates a (platform, profile, role) assignment.
// @Summary Grant a role to a profile on a platform
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.RoleAssignmentRequest true "Assignment triple"
// @Success 201 {object} models.PlatformProfileRole
// @Failure 409 {object} map[string]string "Already assigned"
// @Router /api/v1/assignments/roles [post]
func (h *AssignmentHandler) GrantRole(c echo.Context) error {
	var req validator.RoleAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	assignment, err := models.GrantRole(h.db, req.PlatformID, req.ProfileID, req.RoleID)
	if err != nil {
		status, msg := assignmentStatus(err)
		return c.JSON(status, map[string]string{"error": msg})
	}

	recordAudit(c, models.EventRoleGranted, actorFromContext(c), "platform_profile_roles", assignment)

	return c.JSON(http.StatusCreated, assignment)
}

// RevokeRole closes the active (platform, profile, role) assignment.
// @Summary Revoke a role from a profile on a platform
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.RoleAssignmentRequest true "Assignment triple"
// @Success 200 {object} map[string]string "Revoked"
// @Failure 404 {object} map[string]string "No active assignment"
// @Router /api/v1/assignments/roles/revoke [post]
func (h *AssignmentHandler) RevokeRole(c echo.Context) error {
	var req validator.RoleAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := models.RevokeRole(h.db, req.PlatformID, req.ProfileID, req.RoleID); err != nil {
		status, msg := assignmentStatus(err)
		return c.JSON(status, map[string]string{"error": msg})
	}

	recordAudit(c, models.EventRoleRevoked, actorFromContext(c), "platform_profile_roles", req)

	return c.JSON(http.StatusOK, map[string]string{"message": "role revoked"})
}

// GrantPermission activates a (platform, role, permission) assignment.
// @Summary Grant a permission to a role on a platform
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.PermissionAssignmentRequest true "Assignment triple"
// @Success 201 {object} models.PlatformRolePermission
// @Failure 409 {object} map[string]string "Already assigned"
// @Router /api/v1/assignments/permissions [post]
func (h *AssignmentHandler) GrantPermission(c echo.Context) error {
	var req validator.PermissionAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	assignment, err := models.GrantPermission(h.db, req.PlatformID, req.RoleID, req.PermissionID)
	if err != nil {
		status, msg := assignmentStatus(err)
		return c.JSON(status, map[string]string{"error": msg})
	}

	recordAudit(c, models.EventPermissionGranted, actorFromContext(c), "platform_role_permissions", assignment)

	return c.JSON(http.StatusCreated, assignment)
}

// RevokePermission closes the active (platform, role, permission) assignment.
// @Summary Revoke a permission from a role on a platform
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.PermissionAssignmentRequest true "Assignment triple"
// @Success 200 {object} map[string]string "Revoked"
// @Failure 404 {object} map[string]string "No active assignment"
// @Router /api/v1/assignments/permissions/revoke [post]
func (h *AssignmentHandler) RevokePermission(c echo.Context) error {
	var req validator.PermissionAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := models.RevokePermission(h.db, req.PlatformID, req.RoleID, req.PermissionID); err != nil {
		status, msg := assignmentStatus(err)
		return c.JSON(status, map[string]string{"error": msg})
	}

	recordAudit(c, models.EventPermissionRevoked, actorFromContext(c), "platform_role_permissions", req)

	return c.JSON(http.StatusOK, map[string]string{"message": "permission revoked"})
}

// ListEffectivePermissions returns the resolved (role, permission) rows for a
// profile on a platform. Profiles may always read their own; reading another
// profile's requires the assignments:read permission.
// @Summary List effective permissions for a profile on a platform
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param platformId query int true "Platform ID"
// @Param profileId query int true "Profile ID"
// @Success 200 {array} models.RolePermissionRow
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/v1/assignments/effective [get]
func (h *AssignmentHandler) ListEffectivePermissions(c echo.Context) error {
	platformID, _ := strconv.ParseInt(c.QueryParam("platformId"), 10, 64)
	profileID, _ := strconv.ParseInt(c.QueryParam("profileId"), 10, 64)
	if platformID <= 0 || profileID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "platformId and profileId are required"})
	}

	token := middleware.GetAuthToken(c)
	if token == nil {
		return middleware.ErrNotAuthenticated("")
	}
	if !token.IsSuperUser && !token.HasPermission("assignments:read") {
		if err := middleware.CheckOwner(token, "", profileID); err != nil {
			return err
		}
	}

	rows, err := models.ResolveRolePermissions(h.db, platformID, profileID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to resolve permissions"})
	}

	return c.JSON(http.StatusOK, rows)
}

// ListTokens returns the credential records visible to the caller: all of
// them for superusers, otherwise only the caller's own.
// @Summary List issued credential records
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AuthTransaction
// @Router /api/v1/tokens [get]
func (h *AssignmentHandler) ListTokens(c echo.Context) error {
	token := middleware.GetAuthToken(c)
	if token == nil {
		return middleware.ErrNotAuthenticated("")
	}

	query := h.db.Preload("Profile").
		Where("is_deleted = ?", false).
		Order("created_at desc")
	if !token.IsSuperUser {
		// Non-superusers only ever see their own records; scope the query
		// instead of loading the whole table
		query = query.Where("profile_id = ?", token.Profile.ID)
	}

	var transactions []models.AuthTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list credentials"})
	}

	visible := middleware.FilterByAccess(token, transactions, func(t models.AuthTransaction) (int64, string) {
		email := ""
		if t.Profile != nil {
			email = t.Profile.Email
		}
		return t.ProfileID, email
	})

	return c.JSON(http.StatusOK, visible)
}
