package models

import (
	"sort"
)

// TokenPlatform identifies the platform a credential was issued for.
type TokenPlatform struct {
	ID           int64  `json:"id"`
	PlatformName string `json:"platformName"`
}

// TokenProfile identifies the profile a credential was issued to.
type TokenProfile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type TokenRole struct {
	ID       int64  `json:"id"`
	RoleName string `json:"roleName"`
}

type TokenPermission struct {
	ID             int64  `json:"id"`
	PermissionName string `json:"permissionName"`
}

// AuthToken is the authorization snapshot embedded in a signed credential.
// It is assembled once from resolver output at issuance and never mutated
// afterwards; a changed authorization state requires issuing a new token.
type AuthToken struct {
	Platform    TokenPlatform     `json:"platform"`
	Profile     TokenProfile      `json:"profile"`
	Roles       []TokenRole       `json:"roles"`
	Permissions []TokenPermission `json:"permissions"`
	IsSuperUser bool              `json:"isSuperUser"`
}

// HasRole reports whether the snapshot contains a role with the given name.
func (t AuthToken) HasRole(name string) bool {
	for _, r := range t.Roles {
		if r.RoleName == name {
			return true
		}
	}
	return false
}

// HasPermission reports whether the snapshot grants the named permission.
func (t AuthToken) HasPermission(name string) bool {
	for _, p := range t.Permissions {
		if p.PermissionName == name {
			return true
		}
	}
	return false
}

// BuildAuthToken assembles the snapshot for a profile on a platform from
// resolved (role, permission) rows. Roles and permissions are de-duplicated
// and sorted by name so identical authorization state always serializes to
// the same snapshot. IsSuperUser is derived from the reserved role name.
func BuildAuthToken(platform *Platform, profile *Profile, rows []RolePermissionRow) AuthToken {
	token := AuthToken{
		Platform:    TokenPlatform{ID: platform.ID, PlatformName: platform.Name},
		Profile:     TokenProfile{ID: profile.ID, Email: profile.Email},
		Roles:       make([]TokenRole, 0, len(rows)),
		Permissions: make([]TokenPermission, 0, len(rows)),
	}

	seenRoles := make(map[int64]bool, len(rows))
	seenPerms := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if !seenRoles[row.RoleID] {
			seenRoles[row.RoleID] = true
			token.Roles = append(token.Roles, TokenRole{ID: row.RoleID, RoleName: row.RoleName})
			if row.RoleName == SuperUserRoleName {
				token.IsSuperUser = true
			}
		}
		if !seenPerms[row.PermissionID] {
			seenPerms[row.PermissionID] = true
			token.Permissions = append(token.Permissions, TokenPermission{ID: row.PermissionID, PermissionName: row.PermissionName})
		}
	}

	sort.Slice(token.Roles, func(i, j int) bool {
		return token.Roles[i].RoleName < token.Roles[j].RoleName
	})
	sort.Slice(token.Permissions, func(i, j int) bool {
		return token.Permissions[i].PermissionName < token.Permissions[j].PermissionName
	})

	return token
}
