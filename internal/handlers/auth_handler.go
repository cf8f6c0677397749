package handlers

import (
	"net/http"
	"time"

	"passport/internal/api/middleware"
	"passport/internal/api/validator"
	"passport/internal/events"
	"passport/internal/models"
	"passport/internal/services"
	"passport/internal/tasks/rate"
	"passport/internal/utils"
	"passport/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db      *gorm.DB
	log     *logger.Logger
	issuer  *services.TokenIssuer
	limiter *rate.LoginRateLimiter
}

// NewAuthHandler creates the auth handler. limiter may be nil when Redis is
// not configured; login throttling is then disabled.
func NewAuthHandler(db *gorm.DB, issuer *services.TokenIssuer, limiter *rate.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{
		db:      db,
		log:     logger.New("AuthHandler"),
		issuer:  issuer,
		limiter: limiter,
	}
}

// defaultPlatform loads the platform credentials are issued against when the
// request names none.
func (h *AuthHandler) platformForRequest(platformID int64) (*models.Platform, error) {
	if platformID > 0 {
		return models.GetPlatformByID(platformID, h.db)
	}
	var platform models.Platform
	if err := h.db.Where("name = ? AND is_deleted = ?", models.DefaultPlatformName, false).
		First(&platform).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

// Register creates a new profile and sends back the email validation token.
// @Summary Register a new profile
// @Description Register a new profile with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RegisterRequest true "Registration details"
// @Success 201 {object} map[string]string "Profile registered"
// @Failure 400 {object} map[string]string "Validation error or email exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req validator.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var existing models.Profile
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
	}

	profile := models.Profile{
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := h.db.Create(&profile).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email already registered"})
	}

	validationToken, err := utils.GenerateEmailToken(profile.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to issue validation token"})
	}

	recordAudit(c, models.EventProfileRegistered, profile.Email, "profiles", profile)
	events.Emit("auth.registered", &profile)

	return c.JSON(http.StatusCreated, map[string]string{
		"message":         "profile registered, validate your email",
		"validationToken": validationToken,
	})
}

// ValidateEmail marks a profile's email as verified.
// @Summary Validate a profile email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.ValidateEmailRequest true "Validation token"
// @Success 200 {object} map[string]string "Email validated"
// @Failure 400 {object} map[string]string "Invalid token"
// @Router /auth/validate-email [post]
func (h *AuthHandler) ValidateEmail(c echo.Context) error {
	var req validator.ValidateEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	email, err := utils.ParseEmailToken(req.Token)
	if err != nil {
		h.log.Warn("email validation rejected for %q: %v", utils.DecodeEmailNoException(req.Token), err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid or expired validation token"})
	}

	profile, err := models.GetProfileByEmail(email, h.db)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "profile not found"})
	}

	if !profile.IsValidated {
		if err := h.db.Model(profile).Update("is_validated", true).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to validate email"})
		}
	}

	recordAudit(c, models.EventProfileValidated, email, "profiles", profile)

	return c.JSON(http.StatusOK, map[string]string{"message": "email validated"})
}

// Login verifies credentials and issues an access/refresh token pair.
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.LoginRequest true "Login details"
// @Success 200 {object} services.IssuedCredentials
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ip := utils.GetIPAddress(c.Request())

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Request().Context(), req.Email, ip)
		if err != nil {
			h.log.Warn("login rate limiter unavailable: %v", err)
		}
		if !allowed {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many login attempts, try again later"})
		}
	}

	profile, err := models.GetProfileByEmail(req.Email, h.db)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		h.db.Model(profile).Update("login_attempts", gorm.Expr("login_attempts + 1"))
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	if !profile.IsValidated {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "email not validated"})
	}

	platform, err := h.platformForRequest(req.PlatformID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown platform"})
	}

	credentials, err := h.issuer.Issue(c.Request().Context(), profile, platform, services.RequestMeta{
		IPAddress: ip,
		UserAgent: utils.GetUserAgent(c.Request()),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to issue credentials"})
	}

	now := time.Now()
	h.db.Model(profile).Updates(map[string]interface{}{
		"login_attempts": 0,
		"last_login":     &now,
	})
	if h.limiter != nil {
		h.limiter.Reset(c.Request().Context(), req.Email, ip)
	}

	recordAudit(c, models.EventLogin, profile.Email, "auth_transactions", credentials.Auth)
	events.Emit("auth.login", profile)

	return c.JSON(http.StatusOK, credentials)
}

// RefreshToken exchanges a valid refresh token for a new pair carrying a
// freshly resolved snapshot.
// @Summary Refresh credentials
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RefreshRequest true "Refresh token"
// @Success 200 {object} services.IssuedCredentials
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req validator.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	claims, err := utils.ParseAuthToken(req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
	}

	var transaction models.AuthTransaction
	if err := h.db.Where("refresh_token = ? AND is_deleted = ?", req.RefreshToken, false).
		First(&transaction).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "refresh token revoked"})
	}

	profile, err := models.GetProfileByEmail(claims.Auth.Profile.Email, h.db)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "profile no longer active"})
	}
	platform, err := models.GetPlatformByID(transaction.PlatformID, h.db)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "platform no longer active"})
	}

	credentials, err := h.issuer.Rotate(c.Request().Context(), &transaction, profile, platform)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to refresh credentials"})
	}

	recordAudit(c, models.EventTokenRefreshed, profile.Email, "auth_transactions", credentials.Auth)

	return c.JSON(http.StatusOK, credentials)
}

// Logout revokes the credential pair used on this request.
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	accessToken := middleware.GetAccessToken(c)
	if accessToken == "" {
		return middleware.ErrNotAuthenticated("")
	}

	if err := h.issuer.Revoke(c.Request().Context(), accessToken); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "credential already revoked"})
	}

	recordAudit(c, models.EventLogout, actorFromContext(c), "auth_transactions", nil)
	events.Emit("auth.logout", middleware.GetProfileEmail(c))

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// RequestPasswordReset issues a short-lived reset token for the email.
// Responds identically whether or not the profile exists.
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.PasswordResetRequest true "Account email"
// @Success 200 {object} map[string]string "Reset requested"
// @Router /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req validator.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	response := map[string]string{"message": "if the account exists, a reset token has been issued"}

	profile, err := models.GetProfileByEmail(req.Email, h.db)
	if err != nil {
		return c.JSON(http.StatusOK, response)
	}

	resetToken, err := utils.GenerateEmailToken(profile.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to issue reset token"})
	}

	events.Emit("auth.password_reset_requested", map[string]string{
		"email": profile.Email,
		"token": resetToken,
	})

	return c.JSON(http.StatusOK, response)
}

// ConfirmPasswordReset sets a new password and revokes every outstanding
// credential pair for the profile.
// @Summary Confirm a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.PasswordResetConfirmRequest true "Reset token and new password"
// @Success 200 {object} map[string]string "Password updated"
// @Failure 400 {object} map[string]string "Invalid token"
// @Router /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req validator.PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	email, err := utils.ParseEmailToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid or expired reset token"})
	}

	profile, err := models.GetProfileByEmail(email, h.db)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "profile not found"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
	}

	if err := h.db.Model(profile).Update("password", string(hashedPassword)).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update password"})
	}

	revoked, err := h.issuer.RevokeAll(c.Request().Context(), profile.ID)
	if err != nil {
		h.log.Warn("failed to revoke outstanding credentials for %s: %v", email, err)
	} else {
		h.log.Info("revoked %d credential pairs for %s after password reset", revoked, email)
	}

	recordAudit(c, models.EventPasswordReset, email, "profiles", nil)

	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// GetMe returns the verified snapshot embedded in the caller's credential.
// @Summary Get the authenticated identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AuthToken
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	token := middleware.GetAuthToken(c)
	if token == nil {
		return middleware.ErrNotAuthenticated("")
	}
	return c.JSON(http.StatusOK, token)
}
