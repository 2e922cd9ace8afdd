// Package artifact persists the fitted scaler and forest and serves the loaded pair to
// the predictor.
package artifact

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"

	"github.com/sugarsense/backend/internal/ml"
)

// Artifact names inside a store. The model and scaler are written as separate blobs.
const (
	ModelFile  = "best_rf.gob"
	ScalerFile = "scaler.gob"
)

var (
	// ErrArtifactMissing is returned when a store holds no trained artifacts.
	ErrArtifactMissing = errors.New("artifact missing")
	// ErrArtifactCorrupt is returned when stored artifacts cannot be decoded or disagree.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
)

// Bundle is a fitted scaler and model pair trained together.
type Bundle struct {
	Model  *ml.Forest
	Scaler *ml.Scaler
}

// Validate checks that the pair is usable for inference without panicking.
func (b *Bundle) Validate() error {
	if b == nil || b.Model == nil || b.Scaler == nil {
		return fmt.Errorf("%w: incomplete bundle", ErrArtifactCorrupt)
	}
	if len(b.Model.Trees) == 0 {
		return fmt.Errorf("%w: model has no trees", ErrArtifactCorrupt)
	}
	if len(b.Scaler.Std) != b.Scaler.NumFeatures() {
		return fmt.Errorf("%w: scaler mean and std lengths differ", ErrArtifactCorrupt)
	}
	if b.Scaler.NumFeatures() != b.Model.NumFeatures {
		return fmt.Errorf("%w: scaler has %d features but model expects %d",
			ErrArtifactCorrupt, b.Scaler.NumFeatures(), b.Model.NumFeatures)
	}
	for i, v := range b.Scaler.Mean {
		if !finite(v) || !finite(b.Scaler.Std[i]) || b.Scaler.Std[i] == 0 {
			return fmt.Errorf("%w: scaler column %d is not usable", ErrArtifactCorrupt, i)
		}
	}
	for t, tree := range b.Model.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", ErrArtifactCorrupt, t)
		}
		for i, n := range tree.Nodes {
			if n.Leaf {
				if !finite(n.Positive) || n.Positive < 0 || n.Positive > 1 {
					return fmt.Errorf("%w: tree %d node %d has fraction %v", ErrArtifactCorrupt, t, i, n.Positive)
				}
				continue
			}
			// Children always follow their parent, so every walk ends at a leaf.
			if n.Feature < 0 || n.Feature >= b.Model.NumFeatures || !finite(n.Threshold) ||
				n.Left <= i || n.Left >= len(tree.Nodes) ||
				n.Right <= i || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("%w: tree %d node %d is invalid", ErrArtifactCorrupt, t, i)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Store saves and loads bundles. Save overwrites whatever the store held before.
type Store interface {
	Save(ctx context.Context, b *Bundle) error
	Load(ctx context.Context) (*Bundle, error)
}

func encodeBundle(b *Bundle) (model, scaler []byte, err error) {
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}

	var mb, sb bytes.Buffer
	if err := gob.NewEncoder(&mb).Encode(b.Model); err != nil {
		return nil, nil, fmt.Errorf("failed to encode model: %w", err)
	}
	if err := gob.NewEncoder(&sb).Encode(b.Scaler); err != nil {
		return nil, nil, fmt.Errorf("failed to encode scaler: %w", err)
	}
	return mb.Bytes(), sb.Bytes(), nil
}

func decodeBundle(model, scaler []byte) (*Bundle, error) {
	b := &Bundle{Model: &ml.Forest{}, Scaler: &ml.Scaler{}}
	if err := gob.NewDecoder(bytes.NewReader(model)).Decode(b.Model); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrArtifactCorrupt, ModelFile, err)
	}
	if err := gob.NewDecoder(bytes.NewReader(scaler)).Decode(b.Scaler); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrArtifactCorrupt, ScalerFile, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
