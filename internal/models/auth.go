package models

import (
	"time"
)

// Profile is an authenticated principal.
type Profile struct {
	Base
	Email         string     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password      string     `gorm:"not null" json:"-"`
	IsValidated   bool       `gorm:"default:false" json:"isValidated"`
	LoginAttempts int        `gorm:"default:0" json:"-"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`

	Roles []PlatformProfileRole `gorm:"foreignKey:ProfileID" json:"roles,omitempty"`
}

// AuthTransaction is the persisted record of an issued credential pair. The
// row exists so every token a profile holds can be soft-revoked in bulk (for
// example on password reset) without touching the cryptographic signature.
type AuthTransaction struct {
	Base
	PlatformID   int64     `gorm:"not null;index" json:"platformId"`
	Platform     *Platform `json:"platform,omitempty"`
	ProfileID    int64     `gorm:"not null;index" json:"profileId"`
	Profile      *Profile  `json:"profile,omitempty"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	AccessToken  string    `gorm:"uniqueIndex;not null" json:"-"`
	RefreshToken string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
