package handler

import (
	"io"
	"net/http"

	"noteboard/internal/repository"
	"noteboard/internal/session"
	"noteboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StorageHandler interface {
	GetObject(c *gin.Context)
}

// storageHandler proxies board and note images out of object storage after
// checking the key belongs to the caller. It resolves the session itself:
// an unauthenticated request gets a 200 with a JSON error body, not a
// redirect, which is the contract the image tags rely on.
type storageHandler struct {
	sessions *session.Manager
	repo     repository.AccountRepository
	fetcher  storage.ObjectFetcher
	bucket   string
	log      *logrus.Logger
}

func NewStorageHandler(sessions *session.Manager, repo repository.AccountRepository, fetcher storage.ObjectFetcher, bucket string, log *logrus.Logger) StorageHandler {
	return &storageHandler{sessions: sessions, repo: repo, fetcher: fetcher, bucket: bucket, log: log}
}

func (h *storageHandler) GetObject(c *gin.Context) {
	ctx := c.Request.Context()

	var sess *session.Session
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		sess, _ = h.sessions.Validate(ctx, token)
	}
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"error": "Not allowed"})
		return
	}

	if h.bucket == "" || h.fetcher == nil {
		c.String(http.StatusInternalServerError, "storage bucket is not configured")
		return
	}

	key := c.Query("key")

	// Ownership is checked before the missing-key guard; an empty key falls
	// through to the not-found body in practice.
	owns, err := h.repo.OwnsImage(ctx, sess.UserID, key)
	if err != nil {
		h.log.Errorf("Failed to check image ownership: %v", err)
		c.String(http.StatusForbidden, "Failed to retrieve file")
		return
	}
	if !owns {
		c.JSON(http.StatusOK, gin.H{"error": "Image not found"})
		return
	}

	if key == "" {
		c.String(http.StatusBadRequest, "Key is required")
		return
	}

	obj, err := h.fetcher.Fetch(ctx, key)
	if err != nil {
		c.String(http.StatusForbidden, "Failed to retrieve file")
		return
	}
	defer obj.Body.Close()

	c.Header("Content-Type", obj.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		h.log.Errorf("Failed to stream object %s: %v", key, err)
	}
}
