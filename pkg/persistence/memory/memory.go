// Package memory provides a map-backed blob repository, used as the default
// backend and by tests.
package memory

import (
	"context"
	"sync"
)

// Repository implements persistence.BlobRepository in process memory.
// Contents are lost on process teardown.
type Repository struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func NewRepository() *Repository {
	return &Repository{blobs: make(map[string]string)}
}

func (r *Repository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.blobs[key]

	return value, ok, nil
}

func (r *Repository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blobs[key] = value

	return nil
}

func (r *Repository) HealthCheck(_ context.Context) error {
	return nil
}

func (r *Repository) Close(_ context.Context) error {
	return nil
}
