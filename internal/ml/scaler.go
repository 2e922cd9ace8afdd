package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features column-wise to zero mean and unit variance.
// A fitted Scaler is immutable; the same value is used at training and inference time.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes the population mean and standard deviation of every column of X.
// Constant columns are given unit variance so they transform to zero.
func FitScaler(X [][]float64) (*Scaler, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return nil, fmt.Errorf("%w: cannot fit scaler on an empty matrix", ErrShape)
	}

	width := len(X[0])
	s := &Scaler{
		Mean: make([]float64, width),
		Std:  make([]float64, width),
	}

	column := make([]float64, len(X))
	for j := 0; j < width; j++ {
		for i, row := range X {
			if len(row) != width {
				return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), width)
			}
			column[i] = row[j]
		}

		mean, std := stat.PopMeanStdDev(column, nil)
		if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(std) || math.IsInf(std, 0) {
			return nil, fmt.Errorf("%w: column %d has non-finite values", ErrDegenerateColumn, j)
		}
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}

	return s, nil
}

// NumFeatures returns the width the scaler was fitted on.
func (s *Scaler) NumFeatures() int {
	return len(s.Mean)
}

// Transform standardizes a single row. The row width must match the fitted width.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler fitted on %d features, got %d", ErrShape, len(s.Mean), len(row))
	}

	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformAll standardizes every row of X.
func (s *Scaler) TransformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}
