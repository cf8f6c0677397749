// Package base64 wraps the standard encoding for secret material that may
// arrive from the environment either encoded or raw.
package base64

import (
	"encoding/base64"
)

// EncodeToBase64 renders raw key material as a standard base64 string, the
// form JWT_SECRET is usually configured in.
func EncodeToBase64(input string) string {
	return base64.StdEncoding.EncodeToString([]byte(input))
}

// DecodeFromBase64 reverses EncodeToBase64. Callers treat a decode error as
// "the value was never encoded" and use the raw input instead.
func DecodeFromBase64(input string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
