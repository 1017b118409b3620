package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileAdapter is the low-capacity substitute store: one file per key with a per-value size cap.
type FileAdapter struct {
	fs       afero.Fs
	dir      string
	maxBytes int64
}

// NewFileAdapter stores documents under dir on fsys. maxBytes <= 0 disables the cap.
func NewFileAdapter(fsys afero.Fs, dir string, maxBytes int64) (*FileAdapter, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileAdapter{fs: fsys, dir: dir, maxBytes: maxBytes}, nil
}

func (a *FileAdapter) path(key string) string {
	return filepath.Join(a.dir, url.PathEscape(key)+".json")
}

// Get reads the document for key
func (a *FileAdapter) Get(key string) ([]byte, error) {
	data, err := afero.ReadFile(a.fs, a.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes through a temp file and renames it into place
func (a *FileAdapter) Set(key string, value []byte) error {
	if a.maxBytes > 0 && int64(len(value)) > a.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrQuotaExceeded, len(value), a.maxBytes)
	}

	target := a.path(key)
	tmp := target + ".tmp"
	defer func() { _ = a.fs.Remove(tmp) }()

	if err := afero.WriteFile(a.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file %s: %w", tmp, err)
	}
	if err := a.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// Remove deletes the document; missing keys are not an error
func (a *FileAdapter) Remove(key string) error {
	if err := a.fs.Remove(a.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
