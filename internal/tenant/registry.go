package tenant

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry caches validated tenant configs in front of a Store.
// Concurrent first requests for the same tenant collapse into one store
// load; a config that fails validation is never cached.
type Registry struct {
	store Store
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Config
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{
		store: store,
		cache: make(map[string]*Config),
	}
}

// Resolve returns the tenant's config, loading and validating it on first
// use. Returns ErrNotFound when the store has no such tenant.
func (r *Registry) Resolve(ctx context.Context, tenantID string) (*Config, error) {
	r.mu.RLock()
	cfg, ok := r.cache[tenantID]
	r.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	v, err, _ := r.group.Do(tenantID, func() (any, error) {
		loaded, err := r.store.Get(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, err)
		}
		r.mu.Lock()
		r.cache[tenantID] = loaded
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Config), nil
}

// Invalidate drops a tenant from the cache so the next Resolve reloads it.
func (r *Registry) Invalidate(tenantID string) {
	r.mu.Lock()
	delete(r.cache, tenantID)
	r.mu.Unlock()
}
