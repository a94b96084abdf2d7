// Package token generates opaque session tokens.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Size is the number of random bytes in a token. 8 bytes = 64 bits of
// entropy, which keeps collisions negligible over a single process
// lifetime of sessions.
const Size = 8

// New generates a cryptographically secure, URL-safe session token.
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token: failed to generate: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
