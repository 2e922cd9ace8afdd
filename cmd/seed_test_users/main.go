package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sugarsense/backend/config"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/database"
	"github.com/sugarsense/backend/internal/logging"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/types"
)

const testPassword = "testpassword123"

type testUser struct {
	name     string
	username string
	email    string
	diet     string
	allergy  string
	mood     string
	checkups [][8]float64
}

var testUsers = []testUser{
	{
		name:     "John Doe",
		username: "johndoe",
		email:    "john.doe@example.com",
		diet:     "nonveg",
		allergy:  "peanuts",
		mood:     "Stressed",
		checkups: [][8]float64{
			{2, 148, 72, 35, 0, 33.6, 0.627, 50},
			{2, 160, 76, 35, 120, 34.1, 0.627, 51},
		},
	},
	{
		name:     "Jane Smith",
		username: "janesmith",
		email:    "jane.smith@example.com",
		diet:     "veg",
		allergy:  "",
		mood:     "Happy",
		checkups: [][8]float64{
			{1, 85, 66, 29, 0, 26.6, 0.351, 31},
		},
	},
	{
		name:     "Bob Wilson",
		username: "bobwilson",
		email:    "bob.wilson@example.com",
		diet:     "veg",
		allergy:  "milk",
		mood:     "Tired",
	},
}

func main() {
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
	if err := database.RunMigrations(db, "migrations"); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	ctx := context.Background()
	store, err := artifact.NewStoreFromConfig(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure artifact store")
	}
	handle, err := artifact.LoadHandle(ctx, store)
	if err != nil {
		logger.WithError(err).Warn("Model artifacts not loaded, seeding users without checkups")
	}

	seed(ctx, logger, db, cfg.JWTSecret, handle)
}

func seed(ctx context.Context, logger *logrus.Logger, db *gorm.DB, secret string, handle *artifact.Handle) {
	auth := service.NewAuthService(db, secret, service.NewMemoryTokenBlocklist())
	repo := service.NewPredictionRepository(db)
	predictions := service.NewPredictionService(service.NewRiskPredictor(handle, nil), repo)
	wellness := service.NewWellnessService(db, repo)

	logger.Info("Creating test users...")
	for _, tu := range testUsers {
		log := logger.WithField("email", tu.email)

		user, _, err := auth.Signup(ctx, &types.SignupRequest{
			Username: tu.username,
			Name:     tu.name,
			Email:    tu.email,
			Password: testPassword,
		})
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrUsernameTaken) {
			log.Info("User already exists, skipping")
			continue
		}
		if err != nil {
			log.WithError(err).Error("Failed to create user")
			continue
		}

		seedUser(ctx, log, user, tu, predictions, wellness, handle.Current() != nil)
		log.WithField("username", tu.username).Info("Created test user")
	}

	var total int64
	db.Model(&models.User{}).Count(&total)
	logger.WithFields(logrus.Fields{
		"total_users": total,
		"password":    testPassword,
	}).Info("Test users created successfully")
}

func seedUser(ctx context.Context, log *logrus.Entry, user *models.User, tu testUser, predictions *service.PredictionService, wellness *service.WellnessService, withCheckups bool) {
	if withCheckups {
		for _, values := range tu.checkups {
			if _, err := predictions.Checkup(ctx, user.ID, types.NewCheckupRequest(values)); err != nil {
				log.WithError(err).Warn("Failed to record checkup")
			}
		}
	}
	if _, err := wellness.SavePreferences(ctx, user.ID, tu.diet, tu.allergy); err != nil {
		log.WithError(err).Warn("Failed to save preferences")
	}
	if _, err := wellness.LogMood(ctx, user.ID, tu.mood, "seeded"); err != nil {
		log.WithError(err).Warn("Failed to log mood")
	}
}
