package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"noteboard/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager stores sessions in Redis keyed by the token digest. Tokens are
// opaque: validation, revalidation and revocation all happen server-side.
type Manager struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewManager(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{rdb: rdb, ttl: ttl, logger: logger}
}

// Create mints a fresh token for the user and stores its session state.
func (m *Manager) Create(ctx context.Context, user *models.User) (string, *Session, error) {
	token, err := newToken()
	if err != nil {
		return "", nil, err
	}

	sess := &Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.write(ctx, token, sess, m.ttl); err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

// Validate resolves a token to its session. Sessions past their half-life
// get their expiry pushed out, so active users are never logged out.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, error) {
	sess, err := m.read(ctx, token)
	if err != nil {
		return nil, err
	}

	if time.Until(sess.ExpiresAt) < m.ttl/2 {
		sess.ExpiresAt = time.Now().Add(m.ttl)
		if err := m.write(ctx, token, sess, m.ttl); err != nil {
			m.logger.Warn("Failed to extend session", zap.Error(err))
		}
	}
	return sess, nil
}

// Revalidate rewrites the identity-bearing fields from a fresh user record,
// keeping the existing expiry.
func (m *Manager) Revalidate(ctx context.Context, token string, user *models.User) (*Session, error) {
	sess, err := m.read(ctx, token)
	if err != nil {
		return nil, err
	}

	sess.UserID = user.ID
	sess.Name = user.Name
	sess.Email = user.Email
	sess.Role = user.Role

	remaining := time.Until(sess.ExpiresAt)
	if remaining <= 0 {
		return nil, ErrSessionNotFound
	}
	if err := m.write(ctx, token, sess, remaining); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete revokes a token. Deleting an unknown token is not an error.
func (m *Manager) Delete(ctx context.Context, token string) error {
	return m.rdb.Del(ctx, tokenKey(token)).Err()
}

func (m *Manager) read(ctx context.Context, token string) (*Session, error) {
	blob, err := m.rdb.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		m.logger.Error("Corrupt session blob", zap.Error(err))
		return nil, ErrSessionNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (m *Manager) write(ctx context.Context, token string, sess *Session, ttl time.Duration) error {
	blob, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, tokenKey(token), blob, ttl).Err()
}
