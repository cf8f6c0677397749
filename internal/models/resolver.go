package models

import (
	"gorm.io/gorm"
)

// RolePermissionRow is one effective (role, permission) pair a profile holds
// on a platform.
type RolePermissionRow struct {
	RoleID         int64  `gorm:"column:role_id" json:"roleId"`
	RoleName       string `gorm:"column:role_name" json:"roleName"`
	PermissionID   int64  `gorm:"column:permission_id" json:"permissionId"`
	PermissionName string `gorm:"column:permission_name" json:"permissionName"`
}

// effectivePermissionQuery joins active profile-role and role-permission
// assignments on the same (platform, role) pair. Both relations must be
// un-revoked for a pair to count. Ordered by names so token snapshots built
// from the result are stable across issuances.
const effectivePermissionQuery = `
SELECT DISTINCT ppr.role_id, r.name AS role_name, prp.permission_id, p.name AS permission_name
FROM platform_profile_roles ppr
JOIN platform_role_permissions prp
  ON prp.platform_id = ppr.platform_id
 AND prp.role_id = ppr.role_id
 AND prp.unassigned_date IS NULL
JOIN roles r ON r.id = ppr.role_id
JOIN permissions p ON p.id = prp.permission_id
WHERE ppr.platform_id = ? AND ppr.profile_id = ? AND ppr.unassigned_date IS NULL
ORDER BY role_name, permission_name`

// ResolveRolePermissions returns the effective (role, permission) pairs for a
// profile on a platform. This query is the authoritative definition of an
// effective grant; token snapshots are assembled from its output and must
// never diverge from it.
//
// Non-positive ids yield an empty result without querying. That is a
// defensive contract for callers passing unparsed identifiers, not an error.
func ResolveRolePermissions(db *gorm.DB, platformID, profileID int64) ([]RolePermissionRow, error) {
	if platformID <= 0 || profileID <= 0 {
		return []RolePermissionRow{}, nil
	}

	var rows []RolePermissionRow
	if err := db.Raw(effectivePermissionQuery, platformID, profileID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []RolePermissionRow{}
	}
	return rows, nil
}
