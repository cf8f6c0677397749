package services

import (
	"context"
	"time"

	"passport/internal/models"
	"passport/internal/utils"
	"passport/internal/utils/logger"

	"gorm.io/gorm"
)

// RequestMeta carries the request attribution stored on every issued
// credential pair.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// IssuedCredentials is the result of a successful issue: the signed token
// pair plus the snapshot that was embedded in both.
type IssuedCredentials struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	Auth         models.AuthToken `json:"auth"`
	ExpiresAt    time.Time        `json:"expiresAt"`
}

// TokenIssuer mints access/refresh token pairs. Every pair is backed by an
// AuthTransaction row so credentials can be revoked server-side before
// their signed expiry.
type TokenIssuer struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTokenIssuer(db *gorm.DB) *TokenIssuer {
	return &TokenIssuer{
		db:  db,
		log: logger.New("ISSUER"),
	}
}

// Issue resolves the profile's effective permissions on the platform,
// freezes them into a snapshot, and signs an access/refresh pair.
func (s *TokenIssuer) Issue(ctx context.Context, profile *models.Profile, platform *models.Platform, meta RequestMeta) (*IssuedCredentials, error) {
	rows, err := models.ResolveRolePermissions(s.db.WithContext(ctx), platform.ID, profile.ID)
	if err != nil {
		return nil, s.log.Error("failed to resolve permissions for profile %d", err, profile.ID)
	}

	snapshot := models.BuildAuthToken(platform, profile, rows)

	accessToken, err := utils.GenerateAccessToken(snapshot)
	if err != nil {
		return nil, s.log.Error("failed to sign access token", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(snapshot)
	if err != nil {
		return nil, s.log.Error("failed to sign refresh token", err)
	}

	expiresAt := time.Now().Add(utils.RefreshTokenTTL)
	transaction := models.AuthTransaction{
		PlatformID:   platform.ID,
		ProfileID:    profile.ID,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&transaction).Error; err != nil {
		return nil, s.log.Error("failed to record auth transaction", err)
	}

	return &IssuedCredentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Auth:         snapshot,
		ExpiresAt:    expiresAt,
	}, nil
}

// Rotate replaces the token pair on an existing transaction with a freshly
// resolved snapshot. The old pair stops matching any active row.
func (s *TokenIssuer) Rotate(ctx context.Context, transaction *models.AuthTransaction, profile *models.Profile, platform *models.Platform) (*IssuedCredentials, error) {
	rows, err := models.ResolveRolePermissions(s.db.WithContext(ctx), platform.ID, profile.ID)
	if err != nil {
		return nil, s.log.Error("failed to resolve permissions for profile %d", err, profile.ID)
	}

	snapshot := models.BuildAuthToken(platform, profile, rows)

	accessToken, err := utils.GenerateAccessToken(snapshot)
	if err != nil {
		return nil, s.log.Error("failed to sign access token", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(snapshot)
	if err != nil {
		return nil, s.log.Error("failed to sign refresh token", err)
	}

	expiresAt := time.Now().Add(utils.RefreshTokenTTL)
	updates := map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_at":    expiresAt,
	}
	if err := s.db.WithContext(ctx).Model(transaction).Updates(updates).Error; err != nil {
		return nil, s.log.Error("failed to rotate auth transaction %d", err, transaction.ID)
	}

	return &IssuedCredentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Auth:         snapshot,
		ExpiresAt:    expiresAt,
	}, nil
}

// Revoke soft-deletes the transaction backing the given access token so the
// credential stops being accepted even though its signature is still valid.
func (s *TokenIssuer) Revoke(ctx context.Context, accessToken string) error {
	result := s.db.WithContext(ctx).Model(&models.AuthTransaction{}).
		Where("access_token = ? AND is_deleted = ?", accessToken, false).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_deleted": true,
		})
	if result.Error != nil {
		return s.log.Error("failed to revoke credentials", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAll invalidates every active credential pair held by the profile.
// Used after password resets.
func (s *TokenIssuer) RevokeAll(ctx context.Context, profileID int64) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.AuthTransaction{}).
		Where("profile_id = ? AND is_deleted = ?", profileID, false).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_deleted": true,
		})
	if result.Error != nil {
		return 0, s.log.Error("failed to revoke credentials for profile %d", result.Error, profileID)
	}
	return result.RowsAffected, nil
}
