package middleware

import (
	"strings"

	"passport/internal/models"
	"passport/internal/utils"
	"passport/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var log = logger.New("auth_middleware")

// AuthMiddleware verifies bearer credentials and loads the embedded
// permission snapshot into the request context. Verification needs no
// database round trip for the snapshot itself; the database is only
// consulted to reject server-side revoked credentials.
type AuthMiddleware struct {
	db *gorm.DB
}

func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{db: db}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return ErrNotAuthenticated("missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return ErrNotAuthenticated("invalid authorization header format")
			}

			return m.validateToken(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateToken(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims, err := utils.ParseAuthToken(tokenString)
	if err != nil {
		log.Warn("rejected credential: %v", err)
		if err == utils.ErrCredentialExpired {
			return ErrNotAuthenticated("credential expired")
		}
		return ErrNotAuthenticated("invalid credential")
	}

	// Reject credentials revoked server-side before their signed expiry
	transaction := &models.AuthTransaction{}
	if err := m.db.Where("access_token = ? AND is_deleted = ?", tokenString, false).
		First(transaction).Error; err != nil {
		return ErrNotAuthenticated("credential revoked")
	}

	c.Set("auth", &claims.Auth)
	c.Set("profileID", claims.Auth.Profile.ID)
	c.Set("email", claims.Auth.Profile.Email)
	c.Set("accessToken", tokenString)
	c.Set("ipAddress", utils.GetIPAddress(c.Request()))
	c.Set("userAgent", utils.GetUserAgent(c.Request()))

	return next(c)
}

// GetAuthToken returns the verified permission snapshot from the context.
func GetAuthToken(c echo.Context) *models.AuthToken {
	if token, ok := c.Get("auth").(*models.AuthToken); ok {
		return token
	}
	return nil
}

func GetProfileID(c echo.Context) int64 {
	if id, ok := c.Get("profileID").(int64); ok {
		return id
	}
	return 0
}

func GetProfileEmail(c echo.Context) string {
	if email, ok := c.Get("email").(string); ok {
		return email
	}
	return ""
}

func GetAccessToken(c echo.Context) string {
	if token, ok := c.Get("accessToken").(string); ok {
		return token
	}
	return ""
}

func GetIPAddress(c echo.Context) string {
	if ip, ok := c.Get("ipAddress").(string); ok {
		return ip
	}
	return utils.GetIPAddress(c.Request())
}

func GetUserAgent(c echo.Context) string {
	if agent, ok := c.Get("userAgent").(string); ok {
		return agent
	}
	return utils.GetUserAgent(c.Request())
}
