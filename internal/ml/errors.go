package ml

import "errors"

var (
	// ErrFile is returned when the dataset source cannot be opened or read.
	ErrFile = errors.New("dataset file error")
	// ErrSchema is returned when the dataset is missing expected columns or holds unparseable values.
	ErrSchema = errors.New("dataset schema error")
	// ErrDegenerateColumn is returned when a feature column holds non-finite values.
	ErrDegenerateColumn = errors.New("degenerate feature column")
	// ErrShape is returned when matrix dimensions disagree.
	ErrShape = errors.New("shape mismatch")
)
