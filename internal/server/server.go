package server

import (
	"net/http"

	"noteboard/internal/config"
	"noteboard/internal/handler"
	"noteboard/internal/middleware"
	"noteboard/internal/notifier"
	"noteboard/internal/repository"
	"noteboard/internal/service"
	"noteboard/internal/session"
	"noteboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	cfg      *config.Config
	sessions *session.Manager
	fetcher  storage.ObjectFetcher
	notify   notifier.Notifier
	logger   *zap.Logger
	log      *logrus.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, sessions *session.Manager, fetcher storage.ObjectFetcher, notify notifier.Notifier, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		fetcher:  fetcher,
		notify:   notify,
		logger:   logger,
		log:      log,
	}

	// Setup routes
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	accountRepo := repository.NewAccountRepository(s.db, s.log)
	accountService := service.NewAccountService(accountRepo, s.sessions, s.notify, s.logger)

	cookieMaxAge := s.cfg.Session.TTLHours * 3600
	authHandler := handler.NewAuthHandler(accountService, cookieMaxAge, s.log)
	profileHandler := handler.NewProfileHandler(accountService, s.cfg.TOTP.Issuer, s.log)
	storageHandler := handler.NewStorageHandler(s.sessions, accountRepo, s.fetcher, s.cfg.Storage.Bucket, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)

	// The storage proxy resolves the session itself: its unauthenticated
	// response is a JSON error body, not a redirect.
	s.router.GET("/api/v1/storage", storageHandler.GetObject)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.SessionAuth(s.sessions, s.logger))
	{
		authRequired.GET("/profile/:userId", profileHandler.GetProfile)
		authRequired.GET("/profile/:userId/mfa/provision", profileHandler.ProvisionMFA)
		authRequired.POST("/profile", profileHandler.UpdateProfile)
		authRequired.POST("/profile/password", profileHandler.UpdatePassword)
		authRequired.POST("/profile/mfa", profileHandler.UpdateMFA)
		authRequired.POST("/profile/mfa/delete", profileHandler.DeleteMFA)
		authRequired.POST("/profile/backup", profileHandler.BackupData)
		authRequired.POST("/profile/delete", profileHandler.DeleteAccount)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
