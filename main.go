package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"noteboard/internal/config"
	"noteboard/internal/notifier"
	"noteboard/internal/repository"
	"noteboard/internal/server"
	"noteboard/internal/session"
	"noteboard/internal/storage"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	log := logrus.New()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Context for startup and graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Redis-backed session store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	sessions := session.NewManager(rdb, time.Duration(cfg.Session.TTLHours)*time.Hour, logger)

	// Object storage for board and note images (optional)
	var fetcher storage.ObjectFetcher
	if cfg.Storage.Bucket != "" {
		fetcher, err = storage.NewS3Fetcher(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize object storage", zap.Error(err))
		}
	} else {
		logger.Warn("Storage bucket is not configured - image retrieval will fail until it is set")
	}

	// Security-event notifications (optional)
	notify, err := notifier.NewTelegram(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		notify = notifier.Nop{}
	}

	// Initialize and run the server
	srv := server.NewServer(db, cfg, sessions, fetcher, notify, logger, log)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
