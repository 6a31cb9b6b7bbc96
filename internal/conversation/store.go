package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stagehand-ai/stagehand/pkg/logging"
)

// ErrConversationNotFound is returned when no conversation exists for the key.
var ErrConversationNotFound = errors.New("conversation: not found")

// Store is the get/create/save contract the engine depends on. The engine
// never assumes in-memory residency.
type Store interface {
	Get(ctx context.Context, tenantID, userID string) (*Conversation, error)
	Save(ctx context.Context, conv *Conversation) error
	All(ctx context.Context, tenantID string) ([]*Conversation, error)
}

type memoryEntry struct {
	conv     *Conversation
	lastSeen time.Time
}

// MemoryStore keeps conversations in process memory with idle-TTL
// eviction, run by a janitor goroutine.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	logger  *logging.Logger
	stop    chan struct{}
	stopped sync.Once
}

// NewMemoryStore creates a memory store. ttl <= 0 disables eviction;
// otherwise a janitor sweeps at the given interval until Close.
func NewMemoryStore(ttl, sweepInterval time.Duration, logger *logging.Logger) *MemoryStore {
	if logger == nil {
		logger = logging.Default()
	}
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	if ttl > 0 && sweepInterval > 0 {
		go s.janitor(sweepInterval)
	}
	return s
}

func storeKey(tenantID, userID string) string {
	return tenantID + ":" + userID
}

// Get returns the conversation for a (tenant, user) pair.
func (s *MemoryStore) Get(ctx context.Context, tenantID, userID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[storeKey(tenantID, userID)]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return entry.conv, nil
}

// Save stores the conversation and refreshes its idle clock.
func (s *MemoryStore) Save(ctx context.Context, conv *Conversation) error {
	s.mu.Lock()
	s.entries[storeKey(conv.TenantID, conv.UserID)] = &memoryEntry{
		conv:     conv,
		lastSeen: time.Now(),
	}
	s.mu.Unlock()
	return nil
}

// All returns every conversation for a tenant.
func (s *MemoryStore) All(ctx context.Context, tenantID string) ([]*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Conversation
	for _, entry := range s.entries {
		if entry.conv.TenantID == tenantID {
			out = append(out, entry.conv)
		}
	}
	return out, nil
}

// Close stops the janitor.
func (s *MemoryStore) Close() {
	s.stopped.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

// evictIdle removes conversations idle beyond the TTL.
func (s *MemoryStore) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("evicted idle conversations", "count", evicted)
	}
	return evicted
}
