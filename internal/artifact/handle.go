package artifact

import (
	"context"
	"sync/atomic"
)

// Handle owns the bundle the serving process predicts with. Readers take an immutable
// snapshot with Current; Swap replaces it atomically so a request never sees a
// half-loaded pair.
type Handle struct {
	current atomic.Pointer[Bundle]
}

// NewHandle returns a handle serving b. A nil b yields an empty handle.
func NewHandle(b *Bundle) *Handle {
	h := &Handle{}
	if b != nil {
		h.current.Store(b)
	}
	return h
}

// LoadHandle loads a bundle from store into a new handle. On failure the returned handle
// is empty but usable, so the caller can keep serving and reload later.
func LoadHandle(ctx context.Context, store Store) (*Handle, error) {
	h := NewHandle(nil)
	if err := h.Reload(ctx, store); err != nil {
		return h, err
	}
	return h, nil
}

// Current returns the loaded bundle, or nil when nothing has been loaded.
func (h *Handle) Current() *Bundle {
	if h == nil {
		return nil
	}
	return h.current.Load()
}

// Swap validates b and makes it the current bundle.
func (h *Handle) Swap(b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	h.current.Store(b)
	return nil
}

// Reload loads a fresh bundle from store and swaps it in. The previous bundle stays in
// place if loading fails.
func (h *Handle) Reload(ctx context.Context, store Store) error {
	b, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return h.Swap(b)
}
