package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/testhelpers"
	"github.com/sugarsense/backend/internal/types"
)

func TestCheckupAppendsToHistory(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "erin")

	repo := service.NewPredictionRepository(db)
	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.ConstantBundle(0.75)), nil)
	svc := service.NewPredictionService(predictor, repo)

	result, err := svc.Checkup(ctx, user.ID, types.NewCheckupRequest(sampleCheckup))
	require.NoError(t, err)
	assert.Equal(t, service.LabelVeryHigh, result.Label)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	record := history[0]
	assert.Equal(t, "Risk of Diabetes: 75.00% – Very High Risk", record.Prediction)
	assert.Equal(t, 75.0, record.Percent)
	assert.Equal(t, 150.0, record.Glucose)
	assert.Equal(t, 80.0, record.BloodPressure)
	assert.Equal(t, 32.5, record.BMI)
	assert.Equal(t, 45, record.Age)
	assert.Len(t, record.Features.Slice(), 8)
}

func TestCheckupInvalidInputIsNotLogged(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "frank")

	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.ConstantBundle(0.1)), nil)
	svc := service.NewPredictionService(predictor, service.NewPredictionRepository(db))

	req := types.NewCheckupRequest(sampleCheckup)
	req.Age = types.Measurement{}
	_, err := svc.Checkup(ctx, user.ID, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	req.Age = types.NewMeasurement(1e300)
	_, err = svc.Checkup(ctx, user.ID, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPredictionRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.SetupSQLiteDB(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	repo := service.NewPredictionRepository(db)

	latest, err := repo.Latest(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, label := range []string{service.LabelVeryLow, service.LabelHigh, service.LabelModerate} {
		require.NoError(t, repo.Append(ctx, &models.PredictionHistory{
			UserID:     alice.ID,
			Prediction: label,
			Label:      label,
			Features:   pgvector.NewVector(make([]float32, 8)),
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Append(ctx, &models.PredictionHistory{
		UserID:     bob.ID,
		Prediction: service.LabelVeryHigh,
		Label:      service.LabelVeryHigh,
		Features:   pgvector.NewVector(make([]float32, 8)),
		Timestamp:  base.Add(24 * time.Hour),
	}))

	records, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, service.LabelModerate, records[0].Label)
	assert.Equal(t, service.LabelVeryLow, records[2].Label)
	for _, r := range records {
		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.Equal(t, alice.ID, r.UserID)
	}

	latest, err = repo.Latest(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, service.LabelModerate, latest.Label)

	entries := service.ToEntries(records)
	require.Len(t, entries, 3)
	assert.Equal(t, records[0].ID, entries[0].ID)
}
