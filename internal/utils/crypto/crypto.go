package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	base64_ "passport/internal/utils/base64"
	"passport/internal/utils/logger"
)

var log = logger.New("crypto")

// signingKey is the process-wide HMAC key used for every token signature.
// It is written once during startup and only read afterwards, so concurrent
// access from issuer and verifier paths needs no locking.
var signingKey []byte

// InitializeKey loads the signing key from the environment-provided secret.
// A base64-encoded secret is decoded first; anything else is used verbatim.
func InitializeKey(secret string) error {
	if secret == "" {
		return errors.New("signing key not found")
	}

	if decoded, err := base64_.DecodeFromBase64(secret); err == nil {
		signingKey = []byte(decoded)
	} else {
		signingKey = []byte(secret)
	}

	log.Info("signing key initialized (%d bytes)", len(signingKey))
	return nil
}

// SigningKey returns the process-wide signing key.
func SigningKey() []byte {
	return signingKey
}

// ComputeSignature returns a hex-encoded HMAC-SHA256 of the payload under the
// signing key. Used to checksum audit archive batches before upload.
func ComputeSignature(payload []byte) string {
	h := hmac.New(sha256.New, signingKey)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
