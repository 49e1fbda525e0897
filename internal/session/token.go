package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the raw entropy per session token (256 bits).
const tokenBytes = 32

// NewToken returns a cryptographically random session token encoded
// with base64url. The raw token goes into the client's cookie and is
// never persisted.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token.
// Deterministic so the hash serves as the storage key; one-way so a
// leaked sessions table yields no usable tokens.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
