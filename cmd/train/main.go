package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sugarsense/backend/config"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/logging"
	"github.com/sugarsense/backend/internal/ml"
)

func main() {
	dataPath := flag.String("data", "diabetes.csv", "Path to the training CSV")
	outDir := flag.String("out", "", "Directory to write the artifacts to (defaults to ARTIFACT_DIR)")
	seed := flag.Int64("seed", 42, "Seed for resampling, splitting and the forest")
	folds := flag.Int("folds", 5, "Cross-validation folds")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent fold fits")
	upload := flag.Bool("s3", false, "Also upload the artifacts to S3_BUCKET_NAME")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}
	cfg := config.FromEnv()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if *outDir != "" {
		cfg.ArtifactDir = *outDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, ml.TrainConfig{
		DataPath: *dataPath,
		Seed:     *seed,
		Folds:    *folds,
		Workers:  *workers,
		Logger:   logger.WithField("component", "train"),
	}, *upload); err != nil {
		logger.WithError(err).Error("Training failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logrus.Logger, cfg *config.Config, tc ml.TrainConfig, upload bool) error {
	result, err := ml.Train(ctx, tc)
	if err != nil {
		return err
	}

	bundle := &artifact.Bundle{Model: result.Model, Scaler: result.Scaler}
	if err := artifact.NewFileStore(cfg.ArtifactDir).Save(ctx, bundle); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	logger.WithField("dir", cfg.ArtifactDir).Info("Saved model artifacts")

	if upload {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return err
		}
		store := artifact.NewS3Store(s3cfg.Client, s3cfg.BucketName, s3cfg.Prefix)
		if err := store.Save(ctx, bundle); err != nil {
			return fmt.Errorf("upload artifacts: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"bucket": s3cfg.BucketName,
			"prefix": s3cfg.Prefix,
		}).Info("Uploaded model artifacts")
	}

	fmt.Printf("Best parameters: %s\n", result.Report.BestParams)
	fmt.Printf("Cross-validated accuracy: %.4f\n", result.Report.CVAccuracy)
	fmt.Printf("Test accuracy: %.4f\n", result.Report.TestAccuracy)
	return nil
}
