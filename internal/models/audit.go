package models

import (
	"gorm.io/datatypes"
)

// AuditLog is one recorded authorization or lifecycle event. Snapshot holds
// the affected entity as JSON at event time; Actor is the acting profile id,
// or "system" when no authenticated actor exists.
type AuditLog struct {
	Base
	EventID   string         `gorm:"type:uuid;index" json:"eventId"`
	EventKind string         `gorm:"not null;index" json:"eventKind"`
	Actor     string         `gorm:"not null;default:'system'" json:"actor"`
	Entity    string         `json:"entity"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb" json:"snapshot,omitempty"`
	IPAddress string         `json:"ipAddress"`
	UserAgent string         `json:"userAgent"`
}
