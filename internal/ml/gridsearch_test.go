package ml_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/internal/ml"
)

func TestDefaultParamGridOrder(t *testing.T) {
	combos := ml.DefaultParamGrid().Combinations()
	require.Len(t, combos, 81)

	assert.Equal(t, ml.Params{NEstimators: 100, MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 1}, combos[0])
	assert.Equal(t, ml.Params{NEstimators: 100, MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 2}, combos[1])
	assert.Equal(t, ml.Params{NEstimators: 100, MaxDepth: 10, MinSamplesSplit: 5, MinSamplesLeaf: 1}, combos[3])
	assert.Equal(t, ml.Params{NEstimators: 100, MaxDepth: 20, MinSamplesSplit: 2, MinSamplesLeaf: 1}, combos[9])
	assert.Equal(t, ml.Params{NEstimators: 200, MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 1}, combos[27])
	assert.Equal(t, ml.Params{NEstimators: 300, MaxDepth: 0, MinSamplesSplit: 10, MinSamplesLeaf: 4}, combos[80])
}

func TestGridSearchTiesGoToFirstCombination(t *testing.T) {
	// every candidate separates these clusters perfectly
	ds := clusteredDataset(20, 20, 6)

	result, err := ml.GridSearch(context.Background(), ds.X, ds.Y, smallGrid(), ml.SearchOptions{Folds: 5, Seed: 42, Workers: 4})
	require.NoError(t, err)

	require.Len(t, result.Scores, 8)
	for _, score := range result.Scores {
		assert.Equal(t, 1.0, score.Mean)
		assert.Len(t, score.FoldScores, 5)
	}
	assert.Equal(t, smallGrid().Combinations()[0], result.Best)
	assert.Equal(t, 1.0, result.BestScore)
	require.NotNil(t, result.Model)
	assert.Equal(t, result.Best, result.Model.Params)
}

func TestGridSearchIndependentOfWorkers(t *testing.T) {
	ds := clusteredDataset(30, 20, 8)
	// overlap the clusters on half the features so scores differ between candidates
	for i := range ds.X {
		for j := 0; j < 4; j++ {
			ds.X[i][j] = float64((i * (j + 3)) % 11)
		}
	}

	serial, err := ml.GridSearch(context.Background(), ds.X, ds.Y, smallGrid(), ml.SearchOptions{Folds: 3, Seed: 7, Workers: 1})
	require.NoError(t, err)
	parallel, err := ml.GridSearch(context.Background(), ds.X, ds.Y, smallGrid(), ml.SearchOptions{Folds: 3, Seed: 7, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Scores, parallel.Scores)
	assert.Equal(t, serial.Best, parallel.Best)
	assert.Equal(t, serial.Model.Trees, parallel.Model.Trees)

	for _, score := range serial.Scores {
		assert.LessOrEqual(t, score.Mean, serial.BestScore)
	}
}

func TestGridSearchErrors(t *testing.T) {
	ds := clusteredDataset(3, 3, 1)

	_, err := ml.GridSearch(context.Background(), ds.X, ds.Y, ml.ParamGrid{}, ml.SearchOptions{})
	assert.Error(t, err)

	// five folds cannot be stratified over three rows per class
	_, err = ml.GridSearch(context.Background(), ds.X, ds.Y, smallGrid(), ml.SearchOptions{Folds: 5})
	assert.ErrorIs(t, err, ml.ErrShape)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ml.GridSearch(ctx, ds.X, ds.Y, smallGrid(), ml.SearchOptions{Folds: 3})
	assert.ErrorIs(t, err, context.Canceled)
}
