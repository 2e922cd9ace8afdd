package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sugarsense/backend/config"
	"github.com/sugarsense/backend/internal/database"
	"github.com/sugarsense/backend/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the .sql migrations")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	if *rollback {
		name, err := database.RollbackLast(db, *dir)
		if err != nil {
			logger.WithError(err).Fatal("Rollback failed")
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	if err := database.RunMigrations(db, *dir); err != nil {
		logger.WithError(err).Fatal("Migration failed")
	}
	fmt.Println("All migrations applied successfully.")
}
