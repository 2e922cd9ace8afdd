package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/testhelpers"
	"github.com/sugarsense/backend/internal/types"
)

var sampleCheckup = [8]float64{2, 150, 80, 30, 100, 32.5, 0.5, 45}

func TestClassifyProbabilityBoundaries(t *testing.T) {
	tests := []struct {
		probability float64
		percent     float64
		label       string
		color       string
	}{
		{0, 0, service.LabelVeryLow, "very-low"},
		{0.2999, 29.99, service.LabelVeryLow, "very-low"},
		{0.30, 30, service.LabelModerate, "moderate"},
		{0.4999, 49.99, service.LabelModerate, "moderate"},
		{0.50, 50, service.LabelHigh, "high"},
		{0.6999, 69.99, service.LabelHigh, "high"},
		{0.70, 70, service.LabelVeryHigh, "very-high"},
		{1, 100, service.LabelVeryHigh, "very-high"},
	}
	for _, tt := range tests {
		percent, label, color := service.ClassifyProbability(tt.probability)
		assert.InDelta(t, tt.percent, percent, 1e-9, "probability %v", tt.probability)
		assert.Equal(t, tt.label, label, "probability %v", tt.probability)
		assert.Equal(t, tt.color, color, "probability %v", tt.probability)
	}
}

func TestRiskPercentRoundsToTwoDecimals(t *testing.T) {
	assert.Equal(t, 12.35, service.RiskPercent(0.123456))
	assert.Equal(t, 66.67, service.RiskPercent(2.0/3.0))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Risk of Diabetes: 42.00% – Moderate Risk", service.Summary(42, service.LabelModerate))
}

func TestPredictConstantModel(t *testing.T) {
	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.ConstantBundle(0.42)), metrics.New())

	result, err := predictor.Predict(types.NewCheckupRequest(sampleCheckup))
	require.NoError(t, err)
	assert.Equal(t, 42.0, result.Percent)
	assert.Equal(t, service.LabelModerate, result.Label)
	assert.Equal(t, "moderate", result.ColorClass)
	assert.Equal(t, "Risk of Diabetes: 42.00% – Moderate Risk", result.Summary)
	assert.Equal(t, sampleCheckup[:], result.Features)
}

func TestPredictMissingField(t *testing.T) {
	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.ConstantBundle(0.5)), nil)

	req := types.NewCheckupRequest(sampleCheckup)
	req.Glucose = types.Measurement{}

	_, err := predictor.Predict(req)
	require.ErrorIs(t, err, service.ErrInvalidInput)

	var inputErr *service.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Glucose", inputErr.Field)
	assert.Equal(t, "Glucose is required", inputErr.Message)
}

func TestPredictNonNumericField(t *testing.T) {
	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.ConstantBundle(0.5)), nil)

	req := types.NewCheckupRequest(sampleCheckup)
	require.NoError(t, req.BMI.UnmarshalParam("heavy"))

	_, err := predictor.Predict(req)
	var inputErr *service.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "BMI", inputErr.Field)
	assert.Equal(t, `BMI must be a number, got "heavy"`, inputErr.Message)

	require.NoError(t, req.BMI.UnmarshalParam("NaN"))
	_, err = predictor.Predict(req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestPredictOutOfRangeField(t *testing.T) {
	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.ConstantBundle(0.5)), nil)

	tests := []struct {
		name  string
		field string
		set   func(req *types.CheckupRequest)
	}{
		{"huge age", "Age", func(req *types.CheckupRequest) { req.Age = types.NewMeasurement(1e300) }},
		{"age beyond int32", "Age", func(req *types.CheckupRequest) { req.Age = types.NewMeasurement(3e9) }},
		{"negative age beyond int32", "Age", func(req *types.CheckupRequest) { req.Age = types.NewMeasurement(-3e9) }},
		{"glucose beyond float32", "Glucose", func(req *types.CheckupRequest) { req.Glucose = types.NewMeasurement(1e39) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := types.NewCheckupRequest(sampleCheckup)
			tt.set(req)

			_, err := predictor.Predict(req)
			var inputErr *service.InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
			assert.Equal(t, tt.field+" is out of range", inputErr.Message)
		})
	}

	req := types.NewCheckupRequest(sampleCheckup)
	req.Age = types.NewMeasurement(120)
	_, err := predictor.Predict(req)
	assert.NoError(t, err)
}

func TestPredictWithoutModel(t *testing.T) {
	predictor := service.NewRiskPredictor(artifact.NewHandle(nil), nil)
	_, err := predictor.Predict(types.NewCheckupRequest(sampleCheckup))
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)

	predictor = service.NewRiskPredictor(nil, nil)
	_, err = predictor.Predict(types.NewCheckupRequest(sampleCheckup))
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
}

func TestPredictTrainedModel(t *testing.T) {
	predictor := service.NewRiskPredictor(artifact.NewHandle(testhelpers.FixtureBundle(t)), nil)

	first, err := predictor.Predict(types.NewCheckupRequest(sampleCheckup))
	require.NoError(t, err)
	assert.Equal(t, 91.54, first.Percent)
	assert.Equal(t, service.LabelVeryHigh, first.Label)
	assert.Equal(t, "very-high", first.ColorClass)
	assert.Equal(t, service.Summary(91.54, service.LabelVeryHigh), first.Summary)
	assert.GreaterOrEqual(t, first.Percent, 50.0)

	second, err := predictor.Predict(types.NewCheckupRequest(sampleCheckup))
	require.NoError(t, err)
	assert.Equal(t, first, second, "scoring is deterministic")

	high, err := predictor.Predict(types.NewCheckupRequest([8]float64{4, 195, 85, 35, 200, 40, 1.2, 60}))
	require.NoError(t, err)
	low, err := predictor.Predict(types.NewCheckupRequest([8]float64{1, 80, 70, 20, 50, 20, 0.2, 25}))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, high.Percent, 50.0)
	assert.Less(t, low.Percent, 30.0)
	assert.Equal(t, service.LabelVeryLow, low.Label)
}

func constantHandle(probability float64) *artifact.Handle {
	return artifact.NewHandle(testhelpers.ConstantBundle(probability))
}

func checkupRequest() *types.CheckupRequest {
	return types.NewCheckupRequest(sampleCheckup)
}
