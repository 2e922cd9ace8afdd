package ml

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// TrainConfig controls a training run. Zero values fall back to the production defaults.
type TrainConfig struct {
	DataPath     string
	Seed         int64
	Folds        int
	Workers      int
	TestFraction float64
	Neighbors    int
	Grid         *ParamGrid
	Logger       logrus.FieldLogger
}

// TrainReport summarizes a training run for the operator.
type TrainReport struct {
	Rows          int              `json:"rows"`
	ResampledRows int              `json:"resampled_rows"`
	TrainRows     int              `json:"train_rows"`
	TestRows      int              `json:"test_rows"`
	BestParams    Params           `json:"best_params"`
	CVAccuracy    float64          `json:"cv_accuracy"`
	TestAccuracy  float64          `json:"test_accuracy"`
	Duration      time.Duration    `json:"duration"`
	Candidates    []CandidateScore `json:"candidates,omitempty"`
}

// TrainResult is the fitted scaler and model pair plus the run report.
type TrainResult struct {
	Scaler *Scaler
	Model  *Forest
	Report TrainReport
}

func (c *TrainConfig) applyDefaults() {
	if c.Folds == 0 {
		c.Folds = 5
	}
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.Neighbors == 0 {
		c.Neighbors = DefaultNeighbors
	}
	if c.Grid == nil {
		grid := DefaultParamGrid()
		c.Grid = &grid
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
}

// Train loads the dataset at cfg.DataPath and runs the full training pipeline on it.
func Train(ctx context.Context, cfg TrainConfig) (*TrainResult, error) {
	ds, err := LoadDataset(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return TrainDataset(ctx, ds, cfg)
}

// TrainDataset resamples ds to balance the classes, fits the scaler on the resampled
// rows, holds out a stratified test split, grid-searches the forest on the rest and
// reports the test accuracy of the refitted winner.
func TrainDataset(ctx context.Context, ds *Dataset, cfg TrainConfig) (*TrainResult, error) {
	cfg.applyDefaults()
	start := time.Now()
	log := cfg.Logger

	negative, positive := ds.ClassCounts()
	log.WithFields(logrus.Fields{
		"rows":     ds.Len(),
		"negative": negative,
		"positive": positive,
	}).Info("Loaded dataset")

	X, y, err := Resample(ds.X, ds.Y, cfg.Neighbors, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	log.WithField("rows", len(y)).Info("Resampled dataset")

	scaler, err := FitScaler(X)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	scaled, err := scaler.TransformAll(X)
	if err != nil {
		return nil, fmt.Errorf("scale features: %w", err)
	}

	split, err := StratifiedSplit(scaled, y, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	log.WithFields(logrus.Fields{
		"candidates": len(cfg.Grid.Combinations()),
		"folds":      cfg.Folds,
		"workers":    cfg.Workers,
	}).Info("Starting grid search")

	search, err := GridSearch(ctx, split.TrainX, split.TrainY, *cfg.Grid, SearchOptions{
		Folds:   cfg.Folds,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("grid search: %w", err)
	}

	testAcc, err := search.Model.Accuracy(split.TestX, split.TestY)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	report := TrainReport{
		Rows:          ds.Len(),
		ResampledRows: len(y),
		TrainRows:     len(split.TrainY),
		TestRows:      len(split.TestY),
		BestParams:    search.Best,
		CVAccuracy:    search.BestScore,
		TestAccuracy:  testAcc,
		Duration:      time.Since(start),
		Candidates:    search.Scores,
	}
	log.WithFields(logrus.Fields{
		"best":          search.Best.String(),
		"cv_accuracy":   search.BestScore,
		"test_accuracy": testAcc,
		"duration":      report.Duration,
	}).Info("Training complete")

	return &TrainResult{Scaler: scaler, Model: search.Model, Report: report}, nil
}
