package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ErrSessionNotFound is returned for unknown, expired or revoked tokens.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind one cookie token. Identity-bearing
// fields are refreshed whenever the owning user record changes.
type Session struct {
	UserID    int64     `json:"userId"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

const tokenBytes = 32

// CookieName is the name of the browser cookie carrying the session token.
const CookieName = "session"

func newToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(enc.EncodeToString(raw)), nil
}

// tokenKey derives the Redis key for a token. Only the digest is stored so a
// leaked keyspace dump does not yield usable cookies.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}
