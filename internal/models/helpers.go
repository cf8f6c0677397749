package models

import (
	"gorm.io/gorm"
)

// GetProfileByEmail retrieves a non-deleted profile by its unique email
func GetProfileByEmail(email string, db *gorm.DB) (*Profile, error) {
	profile := &Profile{}
	if err := db.Where("email = ? AND is_deleted = false", email).First(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func GetPlatformByID(id int64, db *gorm.DB) (*Platform, error) {
	platform := &Platform{}
	if err := db.Where("id = ? AND is_deleted = false", id).First(platform).Error; err != nil {
		return nil, err
	}
	return platform, nil
}

func GetRoleByName(name string, db *gorm.DB) (*Role, error) {
	role := &Role{}
	if err := db.Where("name = ? AND is_deleted = false", name).First(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}
