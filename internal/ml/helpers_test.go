package ml_test

import (
	"math/rand"

	"github.com/sugarsense/backend/internal/ml"
)

// clusteredDataset returns rows whose class is decided by two well separated clusters.
// Positive rows sit around 10 on every feature, negative rows around 0.
func clusteredDataset(negative, positive int, seed int64) *ml.Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &ml.Dataset{}
	add := func(n int, center float64, label int) {
		for i := 0; i < n; i++ {
			row := make([]float64, ml.NumFeatures)
			for j := range row {
				row[j] = center + rng.Float64()
			}
			ds.X = append(ds.X, row)
			ds.Y = append(ds.Y, label)
		}
	}
	add(negative, 0, 0)
	add(positive, 10, 1)
	return ds
}

// smallGrid keeps test grid searches fast.
func smallGrid() ml.ParamGrid {
	return ml.ParamGrid{
		NEstimators:     []int{5, 9},
		MaxDepth:        []int{3, 0},
		MinSamplesSplit: []int{2},
		MinSamplesLeaf:  []int{1, 2},
	}
}
