package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the artifacts as two files in a directory.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

var _ Store = (*FileStore)(nil)

// Save writes both artifacts, replacing each file atomically.
func (s *FileStore) Save(ctx context.Context, b *Bundle) error {
	model, scaler, err := encodeBundle(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.Dir, ScalerFile), scaler); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.Dir, ModelFile), model)
}

// Load reads both artifacts from the directory.
func (s *FileStore) Load(ctx context.Context) (*Bundle, error) {
	model, err := readArtifact(filepath.Join(s.Dir, ModelFile))
	if err != nil {
		return nil, err
	}
	scaler, err := readArtifact(filepath.Join(s.Dir, ScalerFile))
	if err != nil {
		return nil, err
	}
	return decodeBundle(model, scaler)
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place so
// readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
