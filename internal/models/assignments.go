package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAlreadyAssigned = errors.New("assignment already active")
	ErrNotAssigned     = errors.New("no active assignment")
)

// PlatformProfileRole is the ternary fact "profile holds role on platform".
// Revocation stamps UnassignedDate instead of deleting the row, so history
// stays available for audit. The partial unique index makes two concurrently
// active rows for the same key impossible at the database level.
type PlatformProfileRole struct {
	Base
	PlatformID int64     `gorm:"not null;uniqueIndex:udx_ppr_active,where:unassigned_date IS NULL" json:"platformId" validate:"required,gt=0"`
	Platform   *Platform `json:"platform,omitempty"`
	ProfileID  int64     `gorm:"not null;uniqueIndex:udx_ppr_active,where:unassigned_date IS NULL" json:"profileId" validate:"required,gt=0"`
	Profile    *Profile  `json:"profile,omitempty"`
	RoleID     int64     `gorm:"not null;uniqueIndex:udx_ppr_active,where:unassigned_date IS NULL" json:"roleId" validate:"required,gt=0"`
	Role       *Role     `json:"role,omitempty"`

	AssignedDate   time.Time  `gorm:"not null" json:"assignedDate"`
	UnassignedDate *time.Time `gorm:"index" json:"unassignedDate,omitempty"`
}

// PlatformRolePermission is the ternary fact "role carries permission on
// platform". Same assignment/unassignment semantics as PlatformProfileRole.
type PlatformRolePermission struct {
	Base
	PlatformID   int64       `gorm:"not null;uniqueIndex:udx_prp_active,where:unassigned_date IS NULL" json:"platformId" validate:"required,gt=0"`
	Platform     *Platform   `json:"platform,omitempty"`
	RoleID       int64       `gorm:"not null;uniqueIndex:udx_prp_active,where:unassigned_date IS NULL" json:"roleId" validate:"required,gt=0"`
	Role         *Role       `json:"role,omitempty"`
	PermissionID int64       `gorm:"not null;uniqueIndex:udx_prp_active,where:unassigned_date IS NULL" json:"permissionId" validate:"required,gt=0"`
	Permission   *Permission `json:"permission,omitempty"`

	AssignedDate   time.Time  `gorm:"not null" json:"assignedDate"`
	UnassignedDate *time.Time `gorm:"index" json:"unassignedDate,omitempty"`
}

// GrantRole creates a new active profile-role assignment. Exactly one row is
// inserted; an already-active assignment for the key is a conflict.
func GrantRole(db *gorm.DB, platformID, profileID, roleID int64) (*PlatformProfileRole, error) {
	assignment := &PlatformProfileRole{
		PlatformID:   platformID,
		ProfileID:    profileID,
		RoleID:       roleID,
		AssignedDate: time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&PlatformProfileRole{}).
			Where("platform_id = ? AND profile_id = ? AND role_id = ? AND unassigned_date IS NULL",
				platformID, profileID, roleID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}
		return tx.Create(assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// RevokeRole stamps the unassignment date on the single active row for the
// key. The row is kept for audit history.
func RevokeRole(db *gorm.DB, platformID, profileID, roleID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&PlatformProfileRole{}).
			Where("platform_id = ? AND profile_id = ? AND role_id = ? AND unassigned_date IS NULL",
				platformID, profileID, roleID).
			Update("unassigned_date", time.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotAssigned
		}
		return nil
	})
}

// GrantPermission creates a new active role-permission assignment.
func GrantPermission(db *gorm.DB, platformID, roleID, permissionID int64) (*PlatformRolePermission, error) {
	assignment := &PlatformRolePermission{
		PlatformID:   platformID,
		RoleID:       roleID,
		PermissionID: permissionID,
		AssignedDate: time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&PlatformRolePermission{}).
			Where("platform_id = ? AND role_id = ? AND permission_id = ? AND unassigned_date IS NULL",
				platformID, roleID, permissionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}
		return tx.Create(assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// RevokePermission stamps the unassignment date on the single active row for
// the key.
func RevokePermission(db *gorm.DB, platformID, roleID, permissionID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&PlatformRolePermission{}).
			Where("platform_id = ? AND role_id = ? AND permission_id = ? AND unassigned_date IS NULL",
				platformID, roleID, permissionID).
			Update("unassigned_date", time.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotAssigned
		}
		return nil
	})
}
