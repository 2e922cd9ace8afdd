package artifact_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/ml"
	"github.com/sugarsense/backend/internal/testhelpers"
)

func TestLoadHandleMissingArtifacts(t *testing.T) {
	h, err := artifact.LoadHandle(context.Background(), artifact.NewFileStore(t.TempDir()))
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
	require.NotNil(t, h)
	assert.Nil(t, h.Current())
}

func TestHandleReload(t *testing.T) {
	bundle := testhelpers.FixtureBundle(t)
	store := artifact.NewFileStore(t.TempDir())

	h, err := artifact.LoadHandle(context.Background(), store)
	assert.Error(t, err)

	require.NoError(t, store.Save(context.Background(), bundle))
	require.NoError(t, h.Reload(context.Background(), store))
	require.NotNil(t, h.Current())
	assert.Equal(t, predict(t, bundle), predict(t, h.Current()))
}

func TestHandleSwapRejectsInvalidBundle(t *testing.T) {
	bundle := testhelpers.FixtureBundle(t)
	h := artifact.NewHandle(bundle)

	err := h.Swap(&artifact.Bundle{Model: &ml.Forest{}, Scaler: bundle.Scaler})
	assert.ErrorIs(t, err, artifact.ErrArtifactCorrupt)
	assert.Same(t, bundle, h.Current())
}

func TestHandleConcurrentReadsDuringSwap(t *testing.T) {
	bundle := testhelpers.FixtureBundle(t)
	h := artifact.NewHandle(bundle)
	want := predict(t, bundle)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b := h.Current()
				row, err := b.Scaler.Transform(sample)
				if !assert.NoError(t, err) {
					return
				}
				p, err := b.Model.PredictProba(row)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, want, p)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, h.Swap(&artifact.Bundle{Model: bundle.Model, Scaler: bundle.Scaler}))
	}
	wg.Wait()
}
