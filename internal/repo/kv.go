// Package repo contains all persistence logic for the DFW Explorer backend.
// Trips are stored as JSON documents in a small key-value abstraction so the
// same trip logic runs against memory (tests), a local file, Postgres or an
// embedded Badger store. No business logic lives here.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// KV is the persistence backend for trip state.
// The service layer never sees it directly; it goes through TripRepo.
type KV interface {
	// Get returns the value stored under key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryKV is an in-process KV. Its contents do not survive a restart.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV constructs an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("repo.MemoryKV.Get %q: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete implements KV.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
