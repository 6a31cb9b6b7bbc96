package tenant

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when no configuration exists for a tenant id.
var ErrNotFound = errors.New("tenant: config not found")

// Store provides tenant configuration lookup.
type Store interface {
	Get(ctx context.Context, tenantID string) (*Config, error)
	Set(ctx context.Context, cfg *Config) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore is an in-memory Store for single-process deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	configs map[string]*Config
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{configs: make(map[string]*Config)}
}

// Get returns the config for a tenant id.
func (s *MemoryStore) Get(ctx context.Context, tenantID string) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	return cfg, nil
}

// Set validates and stores a config.
func (s *MemoryStore) Set(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("tenant: store config: %w", err)
	}
	s.mu.Lock()
	s.configs[cfg.ID] = cfg
	s.mu.Unlock()
	return nil
}

// List returns all known tenant ids.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.configs))
	for id := range s.configs {
		ids = append(ids, id)
	}
	return ids, nil
}
