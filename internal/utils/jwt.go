package utils

import (
	"errors"
	"time"

	"passport/internal/models"
	"passport/internal/utils/crypto"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenIssuerName is the fixed iss claim on every credential this service
// signs. Verification rejects tokens carrying any other issuer.
const TokenIssuerName = "passport"

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 24 * time.Hour
	EmailTokenTTL   = 15 * time.Minute
)

var (
	// ErrCredentialExpired means the signature checked out but the token
	// is past its expiry.
	ErrCredentialExpired = errors.New("credential expired")
	// ErrCredentialInvalid covers every other verification failure:
	// tampered payload, wrong algorithm, malformed claims, wrong issuer.
	ErrCredentialInvalid = errors.New("credential invalid")
)

// Claims is the signed payload of an access or refresh token. Auth embeds
// the full authorization snapshot taken at issuance.
type Claims struct {
	Auth models.AuthToken `json:"auth"`
	jwt.RegisteredClaims
}

// EmailClaims is the payload of the short-lived email-confirmation sub-token
// used for validation and password-reset links.
type EmailClaims struct {
	EmailToken string `json:"emailToken"`
	jwt.RegisteredClaims
}

func signingKeyFunc(token *jwt.Token) (interface{}, error) {
	return crypto.SigningKey(), nil
}

func signSnapshot(snapshot models.AuthToken, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Auth: snapshot,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   snapshot.Profile.Email,
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(crypto.SigningKey())
}

// GenerateAccessToken signs the snapshot into a short-lived access token.
func GenerateAccessToken(snapshot models.AuthToken) (string, error) {
	return signSnapshot(snapshot, AccessTokenTTL)
}

// GenerateRefreshToken signs the snapshot into a longer-lived refresh token.
// Same payload shape as the access token, independent expiry.
func GenerateRefreshToken(snapshot models.AuthToken) (string, error) {
	return signSnapshot(snapshot, RefreshTokenTTL)
}

// ParseAuthToken verifies a presented credential and reconstructs its
// authorization snapshot. Library-specific failures are normalized to
// ErrCredentialExpired or ErrCredentialInvalid; unknown extra claim fields
// are tolerated for forward compatibility.
func ParseAuthToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, signingKeyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, normalizeTokenError(err)
	}
	if !token.Valid {
		return nil, ErrCredentialInvalid
	}
	if claims.Issuer != TokenIssuerName {
		return nil, ErrCredentialInvalid
	}
	return claims, nil
}

// normalizeTokenError maps jwt library failures onto the two credential
// error kinds. Expiry only wins when the signature itself was sound.
func normalizeTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) &&
		!errors.Is(err, jwt.ErrTokenSignatureInvalid) &&
		!errors.Is(err, jwt.ErrTokenMalformed) {
		return ErrCredentialExpired
	}
	return ErrCredentialInvalid
}

// GenerateEmailToken signs a short-lived sub-token carrying only an email
// address, used for out-of-band validation and reset links.
func GenerateEmailToken(email string) (string, error) {
	now := time.Now()
	claims := EmailClaims{
		EmailToken: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(EmailTokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(crypto.SigningKey())
}

// ParseEmailToken verifies an email sub-token and returns the embedded
// address. Failures are normalized the same way as ParseAuthToken.
func ParseEmailToken(tokenString string) (string, error) {
	claims := &EmailClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, signingKeyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", normalizeTokenError(err)
	}
	if !token.Valid || claims.Issuer != TokenIssuerName {
		return "", ErrCredentialInvalid
	}
	return claims.EmailToken, nil
}

// DecodeEmailNoException decodes an email sub-token for diagnostics and
// logging. On any failure, including expiry, it returns the input unchanged
// instead of an error. Never use the result for authorization decisions.
func DecodeEmailNoException(tokenString string) string {
	claims := &EmailClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return tokenString
	}
	if claims.EmailToken == "" {
		return tokenString
	}
	return claims.EmailToken
}
