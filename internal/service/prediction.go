package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/types"
	"gorm.io/gorm"
)

// PredictionRepository is the append-only prediction log.
type PredictionRepository interface {
	Append(ctx context.Context, record *models.PredictionHistory) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PredictionHistory, error)
	Latest(ctx context.Context, userID uuid.UUID) (*models.PredictionHistory, error)
}

// GormPredictionRepository stores predictions in the prediction_history table.
type GormPredictionRepository struct {
	db *gorm.DB
}

var _ PredictionRepository = (*GormPredictionRepository)(nil)

func NewPredictionRepository(db *gorm.DB) *GormPredictionRepository {
	return &GormPredictionRepository{db: db}
}

func (r *GormPredictionRepository) Append(ctx context.Context, record *models.PredictionHistory) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByUser returns a user's predictions, newest first.
func (r *GormPredictionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PredictionHistory, error) {
	var records []models.PredictionHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&records).Error
	return records, err
}

// Latest returns the user's most recent prediction, or nil when there is none.
func (r *GormPredictionRepository) Latest(ctx context.Context, userID uuid.UUID) (*models.PredictionHistory, error) {
	var record models.PredictionHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// PredictionService runs checkups and keeps the prediction log.
type PredictionService struct {
	predictor *RiskPredictor
	repo      PredictionRepository
	log       logrus.FieldLogger
}

var _ IPredictionService = (*PredictionService)(nil)

func NewPredictionService(predictor *RiskPredictor, repo PredictionRepository) *PredictionService {
	return &PredictionService{
		predictor: predictor,
		repo:      repo,
		log:       logrus.WithField("component", "prediction"),
	}
}

// Checkup scores the request and appends the result to the user's log.
func (s *PredictionService) Checkup(ctx context.Context, userID uuid.UUID, req *types.CheckupRequest) (*PredictionResult, error) {
	result, err := s.predictor.Predict(req)
	if err != nil {
		return nil, err
	}

	f := result.Features
	record := &models.PredictionHistory{
		UserID:        userID,
		Prediction:    result.Summary,
		Label:         result.Label,
		Percent:       result.Percent,
		Glucose:       f[1],
		BloodPressure: f[2],
		BMI:           f[5],
		Age:           int(f[7]),
		Features:      pgvector.NewVector(toFloat32(f)),
		Timestamp:     time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"label":   result.Label,
		"percent": result.Percent,
	}).Info("Prediction recorded")
	return result, nil
}

// History lists the user's predictions, newest first.
func (s *PredictionService) History(ctx context.Context, userID uuid.UUID) ([]models.PredictionHistory, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return records, nil
}

// Latest returns the user's most recent prediction, or nil.
func (s *PredictionService) Latest(ctx context.Context, userID uuid.UUID) (*models.PredictionHistory, error) {
	record, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest prediction: %w", err)
	}
	return record, nil
}

// ToEntries converts stored predictions to their API form.
func ToEntries(records []models.PredictionHistory) []types.PredictionEntry {
	entries := make([]types.PredictionEntry, len(records))
	for i, r := range records {
		entries[i] = types.PredictionEntry{
			ID:            r.ID,
			Prediction:    r.Prediction,
			Label:         r.Label,
			Percent:       r.Percent,
			Glucose:       r.Glucose,
			BloodPressure: r.BloodPressure,
			BMI:           r.BMI,
			Age:           r.Age,
			Timestamp:     r.Timestamp,
		}
	}
	return entries
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
