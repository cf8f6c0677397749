package models

import (
	"passport/internal/events"

	"gorm.io/gorm"
)

// Assignment rows can be created outside the HTTP handlers, by the seeder
// in particular. The hooks publish those creations as domain events so
// observers see every new edge in the graph regardless of its origin.

func (a *PlatformProfileRole) AfterCreate(tx *gorm.DB) error {
	events.Emit("assignments.role_granted", a)
	return nil
}

func (a *PlatformRolePermission) AfterCreate(tx *gorm.DB) error {
	events.Emit("assignments.permission_granted", a)
	return nil
}
