package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"noteboard/internal/models"
	"noteboard/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFixture(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := session.NewManager(rdb, time.Hour, zap.NewNop())

	router := gin.New()
	router.GET("/protected", SessionAuth(sessions, zap.NewNop()), func(c *gin.Context) {
		sess := c.MustGet(ContextSession).(*session.Session)
		c.JSON(http.StatusOK, gin.H{"email": sess.Email})
	})
	return router, sessions
}

func TestSessionAuthRedirectsWithoutCookie(t *testing.T) {
	router, _ := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSessionAuthRedirectsForRevokedToken(t *testing.T) {
	router, sessions := newFixture(t)

	token, _, err := sessions.Create(context.Background(), &models.User{ID: 1, Email: "john@example.com", Role: "user"})
	require.NoError(t, err)
	require.NoError(t, sessions.Delete(context.Background(), token))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSessionAuthPassesResolvedSession(t *testing.T) {
	router, sessions := newFixture(t)

	token, _, err := sessions.Create(context.Background(), &models.User{ID: 1, Email: "john@example.com", Role: "user"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "john@example.com")
}
