package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/ml"
	"github.com/sugarsense/backend/internal/types"
)

// Risk labels, from lowest to highest.
const (
	LabelVeryLow  = "Very Low Risk"
	LabelModerate = "Moderate Risk"
	LabelHigh     = "High Risk"
	LabelVeryHigh = "Very High Risk"
)

// PredictionResult is the outcome of scoring one checkup.
type PredictionResult struct {
	Label      string
	Percent    float64
	ColorClass string
	Summary    string
	Features   []float64
}

// RiskPercent converts a positive-class probability to a percentage rounded to two
// decimals.
func RiskPercent(probability float64) float64 {
	return math.Round(probability*10000) / 100
}

// ClassifyPercent maps a risk percentage to its label and display color class.
func ClassifyPercent(percent float64) (label, colorClass string) {
	switch {
	case percent < 30:
		return LabelVeryLow, "very-low"
	case percent < 50:
		return LabelModerate, "moderate"
	case percent < 70:
		return LabelHigh, "high"
	default:
		return LabelVeryHigh, "very-high"
	}
}

// ClassifyProbability rounds a positive-class probability to a percentage and labels it.
func ClassifyProbability(probability float64) (percent float64, label, colorClass string) {
	percent = RiskPercent(probability)
	label, colorClass = ClassifyPercent(percent)
	return percent, label, colorClass
}

// Summary formats the stored prediction string.
func Summary(percent float64, label string) string {
	return fmt.Sprintf("Risk of Diabetes: %.2f%% – %s", percent, label)
}

// RiskPredictor scores checkups against the bundle currently held by its handle.
type RiskPredictor struct {
	handle  *artifact.Handle
	metrics *metrics.Metrics
}

func NewRiskPredictor(handle *artifact.Handle, m *metrics.Metrics) *RiskPredictor {
	return &RiskPredictor{handle: handle, metrics: m}
}

// ageIndex is the position of Age in the feature vector. It is stored as an integer.
const ageIndex = 7

// Features validates the request and returns its values in model order.
func (p *RiskPredictor) Features(req *types.CheckupRequest) ([]float64, error) {
	if req == nil {
		return nil, &InputError{Message: "checkup request is empty"}
	}

	fields := req.Measurements()
	features := make([]float64, len(fields))
	for i, field := range fields {
		if !field.Value.Present() {
			return nil, &InputError{Field: field.Name, Message: field.Name + " is required"}
		}
		v, err := field.Value.Float()
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &InputError{
				Field:   field.Name,
				Message: fmt.Sprintf("%s must be a number, got %q", field.Name, strings.TrimSpace(field.Value.Raw())),
			}
		}
		if math.Abs(v) > math.MaxFloat32 || (i == ageIndex && (v < math.MinInt32 || v > math.MaxInt32)) {
			return nil, &InputError{Field: field.Name, Message: field.Name + " is out of range"}
		}
		features[i] = v
	}
	return features, nil
}

// Predict scores one checkup. It returns an *InputError for a malformed request and
// artifact.ErrArtifactMissing when no model is loaded.
func (p *RiskPredictor) Predict(req *types.CheckupRequest) (*PredictionResult, error) {
	features, err := p.Features(req)
	if err != nil {
		return nil, err
	}
	return p.PredictFeatures(features)
}

// PredictFeatures scores a raw feature vector in model order.
func (p *RiskPredictor) PredictFeatures(features []float64) (*PredictionResult, error) {
	start := time.Now()

	bundle := p.handle.Current()
	if bundle == nil {
		return nil, fmt.Errorf("%w: no model loaded", artifact.ErrArtifactMissing)
	}
	if len(features) != ml.NumFeatures {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrInvalidInput, ml.NumFeatures, len(features))
	}

	scaled, err := bundle.Scaler.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("failed to scale features: %w", err)
	}
	probability, err := bundle.Model.PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("failed to score features: %w", err)
	}

	percent, label, color := ClassifyProbability(probability)
	p.metrics.ObservePrediction(label, time.Since(start))

	return &PredictionResult{
		Label:      label,
		Percent:    percent,
		ColorClass: color,
		Summary:    Summary(percent, label),
		Features:   append([]float64(nil), features...),
	}, nil
}
