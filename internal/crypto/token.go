package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

// NewSessionToken returns a URL-safe opaque token carrying 256 bits of
// randomness.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
