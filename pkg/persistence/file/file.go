// Package file provides a file-based blob repository: one file per key
// under a root directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Repository implements persistence.BlobRepository on the local filesystem.
type Repository struct {
	root string
}

// NewRepository creates a file repository rooted at the given directory.
// A "file://" URL prefix is accepted and stripped.
func NewRepository(root string) (*Repository, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	err := os.MkdirAll(cleanRoot, 0o750)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob root %s: %w", cleanRoot, err)
	}

	return &Repository{root: cleanRoot}, nil
}

func (r *Repository) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(r.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	return string(data), true, nil
}

func (r *Repository) Set(_ context.Context, key, value string) error {
	path := r.path(key)

	// Write-then-rename so a crash mid-write never leaves a truncated blob.
	tmp := path + ".tmp"

	err := os.WriteFile(tmp, []byte(value), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	err = os.Rename(tmp, path)
	if err != nil {
		return fmt.Errorf("failed to replace blob %s: %w", key, err)
	}

	return nil
}

func (r *Repository) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(r.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (r *Repository) Close(_ context.Context) error {
	return nil
}

func (r *Repository) path(key string) string {
	return filepath.Join(r.root, key+".json")
}
