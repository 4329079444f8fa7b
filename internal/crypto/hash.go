package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded sha256 digest of the password.
// The digest format is part of the stored-credential contract; rows written
// by earlier versions of the application hold exactly this encoding.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// SecureCompare reports whether two digests are equal without leaking the
// position of the first differing byte.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
