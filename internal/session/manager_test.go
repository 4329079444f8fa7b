package session

import (
	"context"
	"testing"
	"time"

	"noteboard/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewManager(rdb, ttl, zap.NewNop()), mr
}

func strPtr(s string) *string { return &s }

func testUser() *models.User {
	return &models.User{
		ID:    1,
		Name:  strPtr("John Doe"),
		Email: "john@example.com",
		Role:  "user",
	}
}

func TestCreateAndValidate(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, sess, err := m.Create(ctx, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(1), sess.UserID)

	got, err := m.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "user", got.Role)
}

func TestValidateUnknownToken(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	_, err := m.Validate(context.Background(), "nosuchtoken")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestValidateExpiredToken(t *testing.T) {
	m, mr := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, _, err := m.Create(ctx, testUser())
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRevalidateRefreshesIdentityFields(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	user := testUser()
	token, _, err := m.Create(ctx, user)
	require.NoError(t, err)

	user.Email = "renamed@example.com"
	user.Name = strPtr("Johnny")

	sess, err := m.Revalidate(ctx, token, user)
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", sess.Email)

	got, err := m.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", got.Email)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Johnny", *got.Name)
}

func TestRevalidateUnknownToken(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	_, err := m.Revalidate(context.Background(), "gone", testUser())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteRevokesToken(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, _, err := m.Create(ctx, testUser())
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, token))

	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again is not an error.
	assert.NoError(t, m.Delete(ctx, token))
}

func TestTokensAreUnique(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		token, _, err := m.Create(ctx, testUser())
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestValidateExtendsSessionPastHalfLife(t *testing.T) {
	m, mr := newTestManager(t, time.Hour)
	ctx := context.Background()

	token, _, err := m.Create(ctx, testUser())
	require.NoError(t, err)

	// Past the half-life the expiry gets pushed out again.
	mr.FastForward(45 * time.Minute)

	sess, err := m.Validate(ctx, token)
	require.NoError(t, err)
	assert.Greater(t, time.Until(sess.ExpiresAt), 30*time.Minute)
}
