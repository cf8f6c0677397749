package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"passport/internal/models"
	"passport/internal/utils/crypto"

	"github.com/golang-jwt/jwt/v4"
)

func init() {
	if err := crypto.InitializeKey("test-signing-secret"); err != nil {
		panic(err)
	}
}

func testSnapshot() models.AuthToken {
	return models.AuthToken{
		Platform: models.TokenPlatform{ID: 1, PlatformName: "passport"},
		Profile:  models.TokenProfile{ID: 42, Email: "ada@example.com"},
		Roles:    []models.TokenRole{{ID: 2, RoleName: "ADMIN"}},
		Permissions: []models.TokenPermission{
			{ID: 7, PermissionName: "platforms:read"},
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	signed, err := GenerateAccessToken(testSnapshot())
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	claims, err := ParseAuthToken(signed)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	if claims.Issuer != TokenIssuerName {
		t.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if claims.Subject != "ada@example.com" {
		t.Errorf("unexpected subject %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
	if claims.Auth.Profile.ID != 42 {
		t.Errorf("snapshot profile lost: %+v", claims.Auth.Profile)
	}
	if !claims.Auth.HasPermission("platforms:read") {
		t.Error("snapshot permissions lost")
	}
}

func TestExpiredTokenReported(t *testing.T) {
	now := time.Now()
	claims := Claims{
		Auth: testSnapshot(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(crypto.SigningKey())
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	_, err = ParseAuthToken(signed)
	if !errors.Is(err, ErrCredentialExpired) {
		t.Fatalf("expected ErrCredentialExpired, got %v", err)
	}
}

func TestTamperedTokenInvalid(t *testing.T) {
	signed, err := GenerateAccessToken(testSnapshot())
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = ParseAuthToken(tampered)
	if !errors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}

func TestMalformedTokenInvalid(t *testing.T) {
	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		if _, err := ParseAuthToken(input); !errors.Is(err, ErrCredentialInvalid) {
			t.Errorf("input %q: expected ErrCredentialInvalid, got %v", input, err)
		}
	}
}

func TestWrongSigningMethodRejected(t *testing.T) {
	claims := Claims{
		Auth: testSnapshot(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	// alg=none tokens must never verify
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := ParseAuthToken(signed); !errors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}

func TestWrongIssuerRejected(t *testing.T) {
	claims := Claims{
		Auth: testSnapshot(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(crypto.SigningKey())
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := ParseAuthToken(signed); !errors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}

func TestEmailTokenRoundTrip(t *testing.T) {
	signed, err := GenerateEmailToken("ada@example.com")
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	email, err := ParseEmailToken(signed)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if email != "ada@example.com" {
		t.Errorf("unexpected email %q", email)
	}
}

func TestDecodeEmailNoException(t *testing.T) {
	signed, err := GenerateEmailToken("ada@example.com")
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if got := DecodeEmailNoException(signed); got != "ada@example.com" {
		t.Errorf("expected decoded email, got %q", got)
	}

	// Malformed inputs come back unchanged
	for _, input := range []string{"", "garbage", "a.b.c"} {
		if got := DecodeEmailNoException(input); got != input {
			t.Errorf("input %q: expected unchanged, got %q", input, got)
		}
	}
}
