package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/models"
	"gorm.io/gorm"
)

const rollbackSuffix = "_rollback.sql"

// Models lists every table the application owns.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.PredictionHistory{},
		&models.EmotionLog{},
		&models.UserPreferences{},
		&models.DailyPlan{},
	}
}

// RunMigrations brings the schema up to date. SQLite databases are auto-migrated from
// the models; PostgreSQL databases apply the .sql files of migrationsDir in name order,
// recording each in the migrations table.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	log := logrus.WithField("component", "migrate")

	if db.Dialector.Name() == "sqlite" {
		log.Info("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(Models()...)
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") || strings.HasSuffix(file.Name(), rollbackSuffix) {
			continue
		}

		var count int64
		if err := db.Table("migrations").Where("name = ?", file.Name()).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.WithField("migration", file.Name()).Debug("Skipping migration (already applied)")
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", file.Name()).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", file.Name(), err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.WithField("migration", file.Name()).Info("Applied migration")
	}

	return nil
}

// RollbackLast reverts the most recently applied PostgreSQL migration by running its
// <name>_rollback.sql companion and removing the record. It returns the name of the
// reverted migration.
func RollbackLast(db *gorm.DB, migrationsDir string) (string, error) {
	if db.Dialector.Name() == "sqlite" {
		return "", fmt.Errorf("rollback is not supported for auto-migrated SQLite databases")
	}

	var name string
	err := db.Raw("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name).Error
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("no migrations to roll back")
	}

	path := filepath.Join(migrationsDir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute rollback %s: %w", path, err)
		}
		return tx.Exec("DELETE FROM migrations WHERE name = ?", name).Error
	})
	if err != nil {
		return "", err
	}

	logrus.WithField("component", "migrate").WithField("migration", name).Info("Rolled back migration")
	return name, nil
}
