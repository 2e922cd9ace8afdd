package ml

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultNeighbors is the neighbourhood size used when synthesizing minority rows.
const DefaultNeighbors = 5

// Resample balances a binary dataset with synthetic minority oversampling.
//
// Original rows are kept, in order, and synthetic minority rows are appended until both
// classes have the same count. Each synthetic row lies on the segment between a minority
// row and one of its k nearest minority neighbours. The input is returned as a copy when
// it is already balanced or the minority class has fewer than two rows.
func Resample(X [][]float64, y []int, k int, seed int64) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(X), len(y))
	}

	outX := make([][]float64, len(X))
	for i, row := range X {
		outX[i] = append([]float64(nil), row...)
	}
	outY := append([]int(nil), y...)

	negative, positive := classCounts(y)
	minority, need := 1, negative-positive
	if positive > negative {
		minority, need = 0, positive-negative
	}

	var minorityRows [][]float64
	for i, label := range y {
		if label == minority {
			minorityRows = append(minorityRows, X[i])
		}
	}
	if need == 0 || len(minorityRows) < 2 {
		return outX, outY, nil
	}

	if k <= 0 {
		k = DefaultNeighbors
	}
	if k > len(minorityRows)-1 {
		k = len(minorityRows) - 1
	}

	neighbors, err := nearestNeighbors(minorityRows, k)
	if err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	width := len(minorityRows[0])
	for i := 0; i < need; i++ {
		pick := rng.Intn(len(minorityRows) * k)
		base := minorityRows[pick/k]
		neighbor := minorityRows[neighbors[pick/k][pick%k]]
		gap := rng.Float64()

		synthetic := make([]float64, width)
		for j := range synthetic {
			synthetic[j] = base[j] + gap*(neighbor[j]-base[j])
		}
		outX = append(outX, synthetic)
		outY = append(outY, minority)
	}

	return outX, outY, nil
}

// nearestNeighbors returns, for every row, the indices of its k closest other rows by
// Euclidean distance. Equal distances keep the lower index first.
func nearestNeighbors(rows [][]float64, k int) ([][]int, error) {
	width := len(rows[0])
	for _, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: ragged feature matrix", ErrShape)
		}
	}

	type candidate struct {
		index    int
		distance float64
	}

	result := make([][]int, len(rows))
	candidates := make([]candidate, 0, len(rows)-1)
	for i, row := range rows {
		candidates = candidates[:0]
		for j, other := range rows {
			if i == j {
				continue
			}
			candidates = append(candidates, candidate{index: j, distance: floats.Distance(row, other, 2)})
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].distance < candidates[b].distance
		})

		result[i] = make([]int, k)
		for n := 0; n < k; n++ {
			result[i][n] = candidates[n].index
		}
	}

	return result, nil
}
