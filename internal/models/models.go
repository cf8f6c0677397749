package models

// Platform is a tenant boundary. Roles and permissions are always scoped to a
// platform through the assignment tables; the platform itself carries no
// authorization state.
type Platform struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
	Description string `json:"description"`

	ProfileRoles    []PlatformProfileRole    `gorm:"foreignKey:PlatformID" json:"profileRoles,omitempty"`
	RolePermissions []PlatformRolePermission `gorm:"foreignKey:PlatformID" json:"rolePermissions,omitempty"`
}

// Role is a named capability bundle. Names are globally unique; the reserved
// name SUPERUSER marks the bypass role.
type Role struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name" validate:"required,role_name"`
	Description string `json:"description"`
}

// IsSuperUser reports whether this is the reserved bypass role.
func (r Role) IsSuperUser() bool {
	return r.Name == SuperUserRoleName
}

// Permission is an atomic named capability checked by the enforcement layer.
type Permission struct {
	Base
	Name        string `gorm:"index;not null" json:"name" validate:"required,permission_name"`
	Description string `json:"description"`
}
