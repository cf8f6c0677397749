package models

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	console "passport/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// DefaultPlatformName is the platform the identity service itself is
// administered through. Seeded role-permission assignments live here.
const DefaultPlatformName = "passport"

var defaultResources = []string{
	"platforms",
	"profiles",
	"roles",
	"permissions",
	"assignments",
	"tokens",
	"audit",
}

var defaultActions = []string{"create", "read", "update", "delete"}

// Role-based permission mappings. A trailing ":*" expands to every action of
// the resource; "*:*" expands to everything.
var rolePermissions = map[string][]string{
	"ADMIN": {
		"platforms:*", "profiles:*", "roles:*", "permissions:*", "assignments:*", "tokens:*", "audit:read",
	},
	"AUDITOR": {
		"platforms:read", "profiles:read", "roles:read", "permissions:read", "assignments:read", "tokens:read", "audit:read",
	},
	"MEMBER": {
		"profiles:read", "tokens:read",
	},
}

// SeedAuthGraph creates the default platform, permission catalogue, reserved
// roles, and the role-permission assignments that make the admin platform
// usable out of the box. Safe to run repeatedly.
func SeedAuthGraph(db *gorm.DB) error {
	platform := Platform{Name: DefaultPlatformName, Description: "identity service admin platform"}
	if err := db.FirstOrCreate(&platform, Platform{Name: DefaultPlatformName}).Error; err != nil {
		return fmt.Errorf("failed to create default platform: %v", err)
	}

	for _, resource := range defaultResources {
		for _, action := range defaultActions {
			name := fmt.Sprintf("%s:%s", resource, action)
			permission := Permission{Name: name, Description: fmt.Sprintf("%s %s records", action, resource)}
			if err := db.FirstOrCreate(&permission, Permission{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to create permission %s: %v", name, err)
			}
		}
	}

	// The reserved bypass role carries no explicit permissions; holders
	// pass every check by name alone.
	superuser := Role{Name: SuperUserRoleName, Description: "reserved bypass role"}
	if err := db.FirstOrCreate(&superuser, Role{Name: SuperUserRoleName}).Error; err != nil {
		return fmt.Errorf("failed to create superuser role: %v", err)
	}

	for roleName, patterns := range rolePermissions {
		log.Info("Seeding role %s", roleName)

		role := Role{Name: roleName}
		if err := db.FirstOrCreate(&role, Role{Name: roleName}).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %v", roleName, err)
		}

		for _, pattern := range patterns {
			permissions, err := expandPermissionPattern(db, pattern)
			if err != nil {
				return err
			}
			for _, permission := range permissions {
				if err := seedRolePermission(db, platform.ID, role.ID, permission.ID); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// expandPermissionPattern resolves "resource:action", "resource:*" and "*:*"
// into concrete permission rows.
func expandPermissionPattern(db *gorm.DB, pattern string) ([]Permission, error) {
	parts := strings.Split(pattern, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid permission pattern: %s", pattern)
	}
	resource, action := parts[0], parts[1]

	var permissions []Permission
	query := db.Model(&Permission{})
	switch {
	case resource == "*" && action == "*":
		// everything
	case action == "*":
		query = query.Where("name LIKE ?", resource+":%")
	default:
		query = query.Where("name = ?", pattern)
	}

	if err := query.Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to expand pattern %s: %v", pattern, err)
	}
	if len(permissions) == 0 {
		return nil, fmt.Errorf("pattern %s matched no permissions", pattern)
	}
	return permissions, nil
}

func seedRolePermission(db *gorm.DB, platformID, roleID, permissionID int64) error {
	var count int64
	if err := db.Model(&PlatformRolePermission{}).
		Where("platform_id = ? AND role_id = ? AND permission_id = ? AND unassigned_date IS NULL",
			platformID, roleID, permissionID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check role permission: %v", err)
	}
	if count > 0 {
		return nil
	}

	assignment := PlatformRolePermission{
		PlatformID:   platformID,
		RoleID:       roleID,
		PermissionID: permissionID,
		AssignedDate: time.Now(),
	}
	if err := db.Create(&assignment).Error; err != nil {
		return fmt.Errorf("failed to assign permission %d to role %d: %v", permissionID, roleID, err)
	}
	return nil
}

// CreateSuperUserFromEnv creates the bootstrap superuser profile and its
// active role assignment on the default platform. No-op when a profile
// already holds the reserved role.
func CreateSuperUserFromEnv(db *gorm.DB) error {
	role, err := GetRoleByName(SuperUserRoleName, db)
	if err != nil {
		return fmt.Errorf("superuser role missing: %v", err)
	}

	var count int64
	db.Model(&PlatformProfileRole{}).
		Where("role_id = ? AND unassigned_date IS NULL", role.ID).
		Count(&count)
	log.Info("Active superuser assignments: %d", count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("SUPERUSER_EMAIL")
	if !ok {
		return fmt.Errorf("SUPERUSER_EMAIL not set")
	}

	password, ok := os.LookupEnv("SUPERUSER_PASSWORD")
	if !ok {
		return fmt.Errorf("SUPERUSER_PASSWORD not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	var platform Platform
	if err := db.Where("name = ?", DefaultPlatformName).First(&platform).Error; err != nil {
		return fmt.Errorf("default platform missing: %v", err)
	}

	profile := Profile{
		Email:       email,
		Password:    string(hashedPassword),
		IsValidated: true,
	}
	if err := db.Where(Profile{Email: email}).FirstOrCreate(&profile).Error; err != nil {
		return fmt.Errorf("failed to create superuser profile: %v", err)
	}

	if _, err := GrantRole(db, platform.ID, profile.ID, role.ID); err != nil {
		return fmt.Errorf("failed to grant superuser role: %v", err)
	}

	return nil
}
