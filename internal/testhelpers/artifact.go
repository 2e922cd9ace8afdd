package testhelpers

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/ml"
)

// FixtureSeed seeds both the fixture data and the fixture forest.
const FixtureSeed = 42

// FixtureParams are the hyperparameters of the fixture forest.
var FixtureParams = ml.Params{NEstimators: 25, MaxDepth: 6, MinSamplesSplit: 2, MinSamplesLeaf: 1}

var (
	fixtureOnce   sync.Once
	fixtureBundle *artifact.Bundle
	fixtureErr    error
)

// FixtureDataset returns a deterministic clinical-looking dataset whose outcome is
// driven mostly by glucose and BMI.
func FixtureDataset() *ml.Dataset {
	rng := rand.New(rand.NewSource(FixtureSeed))
	ds := &ml.Dataset{}
	for i := 0; i < 300; i++ {
		glucose := 70 + rng.Float64()*130
		bmi := 18 + rng.Float64()*25
		age := 21 + rng.Float64()*50
		row := []float64{
			float64(rng.Intn(10)),
			glucose,
			50 + rng.Float64()*50,
			10 + rng.Float64()*40,
			rng.Float64() * 300,
			bmi,
			0.1 + rng.Float64()*1.5,
			age,
		}
		label := 0
		if glucose > 145 || (bmi > 35 && age > 45) {
			label = 1
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, label)
	}
	return ds
}

// FixtureBundle returns a scaler and forest fitted once from FixtureDataset. The bundle
// is shared between tests and must not be modified.
func FixtureBundle(t testing.TB) *artifact.Bundle {
	t.Helper()
	fixtureOnce.Do(func() {
		ds := FixtureDataset()
		scaler, err := ml.FitScaler(ds.X)
		if err != nil {
			fixtureErr = err
			return
		}
		scaled, err := scaler.TransformAll(ds.X)
		if err != nil {
			fixtureErr = err
			return
		}
		forest := ml.NewForest(FixtureParams, FixtureSeed)
		if err := forest.Fit(context.Background(), scaled, ds.Y); err != nil {
			fixtureErr = err
			return
		}
		fixtureBundle = &artifact.Bundle{Model: forest, Scaler: scaler}
	})
	if fixtureErr != nil {
		t.Fatalf("failed to build fixture bundle: %v", fixtureErr)
	}
	return fixtureBundle
}

// ConstantBundle returns an identity scaler and a one-leaf forest that scores every
// input with the given positive-class probability.
func ConstantBundle(probability float64) *artifact.Bundle {
	scaler := &ml.Scaler{Mean: make([]float64, ml.NumFeatures), Std: make([]float64, ml.NumFeatures)}
	for i := range scaler.Std {
		scaler.Std[i] = 1
	}
	forest := &ml.Forest{
		Params:      ml.Params{NEstimators: 1},
		NumFeatures: ml.NumFeatures,
		MaxFeatures: 2,
		Trees:       []ml.Tree{{Nodes: []ml.Node{{Leaf: true, Positive: probability}}}},
	}
	return &artifact.Bundle{Model: forest, Scaler: scaler}
}
