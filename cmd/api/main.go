package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sugarsense/backend/config"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/database"
	"github.com/sugarsense/backend/internal/logging"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"driver":      cfg.DBDriver,
	}).Info("Starting SugarSense backend")

	db, err := database.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, getMigrationsDir()); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without it")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := artifact.NewStoreFromConfig(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure artifact store")
	}
	handle, err := artifact.LoadHandle(ctx, store)
	if err != nil {
		logger.WithError(err).Warn("Model artifacts not loaded, checkups will be unavailable until reload")
	}

	m := metrics.New()
	m.SetModelLoaded(handle.Current() != nil)
	go reloadOnHangup(ctx, logger, handle, store, m)

	srv := server.New(cfg, db, server.Options{
		Redis:   redisClient,
		Handle:  handle,
		Metrics: m,
		Logger:  logger,
	})
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
	logger.Info("Server stopped")
}

// reloadOnHangup swaps in freshly trained artifacts whenever the process receives SIGHUP.
func reloadOnHangup(ctx context.Context, logger *logrus.Logger, handle *artifact.Handle, store artifact.Store, m *metrics.Metrics) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := handle.Reload(ctx, store); err != nil {
				logger.WithError(err).Error("Failed to reload model artifacts")
				continue
			}
			m.SetModelLoaded(true)
			logger.Info("Reloaded model artifacts")
		}
	}
}

func getMigrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
