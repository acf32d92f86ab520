package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const sessionIDBytes = 32

// GenerateSessionID returns a new opaque visitor identifier: 32 random bytes,
// unpadded base64url. No padding means no '=' for SetCookie to URL-escape, so
// the wire value matches the stored id byte for byte.
func GenerateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IsValidSessionID reports whether a cookie value looks like an id we issued.
// Anything else is treated as no cookie at all and replaced.
func IsValidSessionID(id string) bool {
	if len(id) != base64.RawURLEncoding.EncodedLen(sessionIDBytes) {
		return false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil && len(decoded) == sessionIDBytes
}
