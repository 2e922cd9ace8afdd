package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// NumFeatures is the width of every feature vector.
const NumFeatures = 8

// OutcomeColumn is the label column of the training file.
const OutcomeColumn = "Outcome"

// FeatureNames lists the clinical measurements in canonical order.
var FeatureNames = [NumFeatures]string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// Dataset is a row-aligned feature matrix and binary label vector.
type Dataset struct {
	X [][]float64
	Y []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// ClassCounts returns the number of negative and positive rows.
func (d *Dataset) ClassCounts() (negative, positive int) {
	return classCounts(d.Y)
}

func classCounts(y []int) (negative, positive int) {
	for _, label := range y {
		if label == 1 {
			positive++
		} else {
			negative++
		}
	}
	return negative, positive
}

// LoadDataset reads a CSV file whose header names the eight feature columns and Outcome.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFile, err)
	}
	defer f.Close()

	return ReadDataset(f)
}

// ReadDataset parses CSV rows from r. Columns are matched by header name, so the
// file may order them freely; extra columns are ignored.
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", readErrorKind(err), err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var columns [NumFeatures]int
	for i, name := range FeatureNames {
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, name)
		}
		columns[i] = col
	}
	outcomeCol, ok := index[OutcomeColumn]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrSchema, OutcomeColumn)
	}

	ds := &Dataset{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", readErrorKind(err), line, err)
		}

		row := make([]float64, NumFeatures)
		for i, col := range columns {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d column %s: %q is not numeric", ErrSchema, line, FeatureNames[i], record[col])
			}
			row[i] = v
		}

		outcome, err := strconv.ParseFloat(strings.TrimSpace(record[outcomeCol]), 64)
		if err != nil || (outcome != 0 && outcome != 1) {
			return nil, fmt.Errorf("%w: line %d: outcome %q is not 0 or 1", ErrSchema, line, record[outcomeCol])
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, int(outcome))
	}

	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrSchema)
	}

	return ds, nil
}

// readErrorKind classifies a CSV read failure: malformed content is a schema problem,
// anything else means the source itself could not be read.
func readErrorKind(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return ErrSchema
	}
	return ErrFile
}
