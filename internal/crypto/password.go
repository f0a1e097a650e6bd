package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword returns the hex SHA-256 digest of the password. The digest is
// unsalted and deterministic; anything beyond a demo deployment should use a
// salted, memory-hard KDF (bcrypt or argon2id) instead.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func CheckPassword(hash, password string) error {
	computed := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(computed)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
