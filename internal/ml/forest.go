package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Params are the random-forest hyperparameters explored by grid search.
// MaxDepth 0 grows trees until leaves are pure or too small to split.
type Params struct {
	NEstimators     int `json:"n_estimators"`
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

func (p Params) String() string {
	depth := "none"
	if p.MaxDepth > 0 {
		depth = fmt.Sprint(p.MaxDepth)
	}
	return fmt.Sprintf("n_estimators=%d max_depth=%s min_samples_split=%d min_samples_leaf=%d",
		p.NEstimators, depth, p.MinSamplesSplit, p.MinSamplesLeaf)
}

// Forest is a bagged ensemble of Gini decision trees. A fitted Forest is never mutated
// and is safe for concurrent PredictProba calls.
type Forest struct {
	Params      Params
	Seed        int64
	NumFeatures int
	MaxFeatures int
	Trees       []Tree
}

// NewForest returns an unfitted forest with the given hyperparameters and seed.
func NewForest(p Params, seed int64) *Forest {
	if p.NEstimators <= 0 {
		p.NEstimators = 100
	}
	return &Forest{Params: p, Seed: seed}
}

// Fit grows every tree on a bootstrap sample of (X, y). Each tree draws from its own
// generator seeded from the forest seed, so the fitted forest depends only on the data,
// the parameters and the seed.
func (f *Forest) Fit(ctx context.Context, X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: empty training data", ErrShape)
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), width)
		}
	}

	f.NumFeatures = width
	f.MaxFeatures = max(int(math.Sqrt(float64(width))), 1)

	seeds := rand.New(rand.NewSource(f.Seed))
	trees := make([]Tree, f.Params.NEstimators)
	sample := make([]int, len(X))
	for t := range trees {
		if err := ctx.Err(); err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(seeds.Int63()))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}
		trees[t] = growTree(X, y, sample, f.Params, f.MaxFeatures, rng)
	}

	f.Trees = trees
	return nil
}

// PredictProba returns the probability of the positive class for one scaled row,
// averaged over all trees.
func (f *Forest) PredictProba(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("model not trained")
	}
	if len(x) != f.NumFeatures {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrShape, f.NumFeatures, len(x))
	}

	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].PositiveFraction(x)
	}
	return sum / float64(len(f.Trees)), nil
}

// Predict returns the majority class for one scaled row. Exact ties go to class 0.
func (f *Forest) Predict(x []float64) (int, error) {
	p, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if p > 0.5 {
		return 1, nil
	}
	return 0, nil
}

// Accuracy returns the fraction of rows of X the forest labels correctly.
func (f *Forest) Accuracy(X [][]float64, y []int) (float64, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("%w: empty evaluation set", ErrShape)
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(X), len(y))
	}

	correct := 0
	for i, row := range X {
		label, err := f.Predict(row)
		if err != nil {
			return 0, err
		}
		if label == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X)), nil
}
