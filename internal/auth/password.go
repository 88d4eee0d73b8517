package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword digests a plaintext password as unsalted SHA-256 hex.
// The scheme is deterministic so digests stored by earlier deployments keep
// verifying; migrating to a salted scheme would require rehashing every row.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword verifies a password against its stored digest.
func CheckPassword(password, digest string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
