package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// Split is a train/test partition of a dataset.
type Split struct {
	TrainX [][]float64
	TrainY []int
	TestX  [][]float64
	TestY  []int
}

// StratifiedSplit holds out testFraction of each class for testing. Rows are shuffled
// per class with the given seed; both partitions keep the original row order otherwise.
func StratifiedSplit(X [][]float64, y []int, testFraction float64, seed int64) (*Split, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", ErrShape, len(X), len(y))
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("%w: test fraction %v must be in (0, 1)", ErrShape, testFraction)
	}

	rng := rand.New(rand.NewSource(seed))
	test := make([]bool, len(y))
	for _, class := range []int{0, 1} {
		var members []int
		for i, label := range y {
			if label == class {
				members = append(members, i)
			}
		}
		n := int(math.Round(testFraction * float64(len(members))))
		if len(members) > 1 && n == 0 {
			n = 1
		}
		if n >= len(members) {
			n = len(members) - 1
		}
		rng.Shuffle(len(members), func(a, b int) {
			members[a], members[b] = members[b], members[a]
		})
		for _, i := range members[:max(n, 0)] {
			test[i] = true
		}
	}

	s := &Split{}
	for i, row := range X {
		if test[i] {
			s.TestX = append(s.TestX, row)
			s.TestY = append(s.TestY, y[i])
		} else {
			s.TrainX = append(s.TrainX, row)
			s.TrainY = append(s.TrainY, y[i])
		}
	}
	if len(s.TrainY) == 0 || len(s.TestY) == 0 {
		return nil, fmt.Errorf("%w: %d rows are too few to split", ErrShape, len(y))
	}
	return s, nil
}

// StratifiedKFold assigns every row to one of k validation folds, dealing the rows of
// each class round-robin in index order so every fold sees both classes in proportion.
// It returns the row indices of each fold.
func StratifiedKFold(y []int, k int) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: need at least 2 folds, got %d", ErrShape, k)
	}
	negative, positive := classCounts(y)
	if negative < k || positive < k {
		return nil, fmt.Errorf("%w: %d folds but class counts are %d and %d", ErrShape, k, negative, positive)
	}

	folds := make([][]int, k)
	next := [2]int{}
	for i, label := range y {
		class := 0
		if label == 1 {
			class = 1
		}
		folds[next[class]] = append(folds[next[class]], i)
		next[class] = (next[class] + 1) % k
	}
	return folds, nil
}

// foldData splits (X, y) into the training rows and the validation rows of one fold.
func foldData(X [][]float64, y []int, validation []int) (trainX [][]float64, trainY []int, valX [][]float64, valY []int) {
	held := make(map[int]bool, len(validation))
	for _, i := range validation {
		held[i] = true
	}
	for i, row := range X {
		if held[i] {
			valX = append(valX, row)
			valY = append(valY, y[i])
		} else {
			trainX = append(trainX, row)
			trainY = append(trainY, y[i])
		}
	}
	return trainX, trainY, valX, valY
}
