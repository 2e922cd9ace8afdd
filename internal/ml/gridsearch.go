package ml

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParamGrid lists the candidate values of every hyperparameter. A MaxDepth of 0 means
// unbounded depth.
type ParamGrid struct {
	NEstimators     []int
	MaxDepth        []int
	MinSamplesSplit []int
	MinSamplesLeaf  []int
}

// DefaultParamGrid is the grid the production model is searched over.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		NEstimators:     []int{100, 200, 300},
		MaxDepth:        []int{10, 20, 0},
		MinSamplesSplit: []int{2, 5, 10},
		MinSamplesLeaf:  []int{1, 2, 4},
	}
}

// Combinations enumerates the grid with NEstimators varying slowest and MinSamplesLeaf
// fastest. Grid search breaks score ties by this order.
func (g ParamGrid) Combinations() []Params {
	var out []Params
	for _, n := range g.NEstimators {
		for _, depth := range g.MaxDepth {
			for _, split := range g.MinSamplesSplit {
				for _, leaf := range g.MinSamplesLeaf {
					out = append(out, Params{
						NEstimators:     n,
						MaxDepth:        depth,
						MinSamplesSplit: split,
						MinSamplesLeaf:  leaf,
					})
				}
			}
		}
	}
	return out
}

// SearchOptions configure GridSearch.
type SearchOptions struct {
	Folds   int
	Seed    int64
	Workers int
}

// CandidateScore is the cross-validated accuracy of one grid combination.
type CandidateScore struct {
	Params     Params    `json:"params"`
	FoldScores []float64 `json:"fold_scores"`
	Mean       float64   `json:"mean"`
}

// SearchResult is the outcome of GridSearch. Model is the best combination refitted on
// all rows passed to the search.
type SearchResult struct {
	Best      Params
	BestScore float64
	Scores    []CandidateScore
	Model     *Forest
}

// GridSearch scores every grid combination by mean stratified k-fold accuracy and refits
// the winner on the whole of (X, y). Fold fits run concurrently on at most opts.Workers
// goroutines; the selection does not depend on scheduling because each forest is seeded
// with opts.Seed and the highest mean wins with ties going to the earliest combination.
func GridSearch(ctx context.Context, X [][]float64, y []int, grid ParamGrid, opts SearchOptions) (*SearchResult, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(X), len(y))
	}
	candidates := grid.Combinations()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("empty parameter grid")
	}
	if opts.Folds == 0 {
		opts.Folds = 5
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	folds, err := StratifiedKFold(y, opts.Folds)
	if err != nil {
		return nil, err
	}

	type foldSet struct {
		trainX [][]float64
		trainY []int
		valX   [][]float64
		valY   []int
	}
	sets := make([]foldSet, len(folds))
	for f, validation := range folds {
		trainX, trainY, valX, valY := foldData(X, y, validation)
		sets[f] = foldSet{trainX: trainX, trainY: trainY, valX: valX, valY: valY}
	}

	scores := make([][]float64, len(candidates))
	for c := range scores {
		scores[c] = make([]float64, len(folds))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for c, params := range candidates {
		c, params := c, params
		for f := range sets {
			f := f
			g.Go(func() error {
				forest := NewForest(params, opts.Seed)
				if err := forest.Fit(gctx, sets[f].trainX, sets[f].trainY); err != nil {
					return fmt.Errorf("fit %s fold %d: %w", params, f, err)
				}
				acc, err := forest.Accuracy(sets[f].valX, sets[f].valY)
				if err != nil {
					return fmt.Errorf("score %s fold %d: %w", params, f, err)
				}
				scores[c][f] = acc
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SearchResult{Scores: make([]CandidateScore, len(candidates))}
	best := -1
	for c, params := range candidates {
		sum := 0.0
		for _, s := range scores[c] {
			sum += s
		}
		mean := sum / float64(len(folds))
		result.Scores[c] = CandidateScore{Params: params, FoldScores: scores[c], Mean: mean}
		if best < 0 || mean > result.BestScore {
			best = c
			result.BestScore = mean
		}
	}
	result.Best = candidates[best]

	model := NewForest(result.Best, opts.Seed)
	if err := model.Fit(ctx, X, y); err != nil {
		return nil, fmt.Errorf("refit %s: %w", result.Best, err)
	}
	result.Model = model

	return result, nil
}
