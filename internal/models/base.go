package models

import (
	"time"
)

// Base contains common columns for all tables
type Base struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"-" validate:"omitempty"`
	IsDeleted bool       `json:"isDeleted"`
}

// SuperUserRoleName is the reserved role name whose holders bypass every
// permission and ownership check. Superuser status is derived from this name
// at token build time; Role carries no dedicated flag for it.
const SuperUserRoleName = "SUPERUSER"

// Audit event kinds recorded by handlers and the enforcement layer.
const (
	EventLogin              = "auth.login"
	EventLogout             = "auth.logout"
	EventTokenRefreshed     = "auth.token_refreshed"
	EventPasswordReset      = "auth.password_reset"
	EventProfileRegistered  = "auth.profile_registered"
	EventProfileValidated   = "auth.profile_validated"
	EventRoleGranted        = "assignment.role_granted"
	EventRoleRevoked        = "assignment.role_revoked"
	EventPermissionGranted  = "assignment.permission_granted"
	EventPermissionRevoked  = "assignment.permission_revoked"
	EventAccessDenied       = "auth.denied"
)
