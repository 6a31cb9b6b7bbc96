package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(0, 0, nil)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := s.Get(ctx, "fitlab", "user-1")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	conv := NewConversation("fitlab", "user-1", "Marco", now)
	conv.Append(RoleUser, "Ciao", nil, now)
	require.NoError(t, s.Save(ctx, conv))

	got, err := s.Get(ctx, "fitlab", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Marco", got.DisplayName)
	assert.Len(t, got.Messages, 1)
}

func TestMemoryStoreAllFiltersByTenant(t *testing.T) {
	s := NewMemoryStore(0, 0, nil)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Save(ctx, NewConversation("fitlab", "user-1", "", now)))
	require.NoError(t, s.Save(ctx, NewConversation("fitlab", "user-2", "", now)))
	require.NoError(t, s.Save(ctx, NewConversation("dental", "user-3", "", now)))

	convs, err := s.All(ctx, "fitlab")
	require.NoError(t, err)
	assert.Len(t, convs, 2)
}

func TestMemoryStoreEvictsIdleConversations(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0, nil)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Save(ctx, NewConversation("fitlab", "stale", "", now)))
	require.NoError(t, s.Save(ctx, NewConversation("fitlab", "fresh", "", now)))

	// Only the stale entry crosses the idle threshold.
	s.mu.Lock()
	s.entries[storeKey("fitlab", "stale")].lastSeen = now.Add(-2 * time.Hour)
	s.mu.Unlock()

	evicted := s.evictIdle(now)
	assert.Equal(t, 1, evicted)

	_, err := s.Get(ctx, "fitlab", "stale")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	_, err = s.Get(ctx, "fitlab", "fresh")
	assert.NoError(t, err)
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Hour, time.Minute, nil)
	s.Close()
	s.Close()
}

func newRedisConvStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s := newRedisConvStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := s.Get(ctx, "fitlab", "user-1")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	conv := NewConversation("fitlab", "user-1", "Marco", now)
	conv.Lead.Name = "Marco"
	conv.Append(RoleUser, "Ciao", nil, now)
	conv.Append(RoleAssistant, "Benvenuto!", []string{"Mon 10/03 14:00"}, now)
	require.NoError(t, s.Save(ctx, conv))

	got, err := s.Get(ctx, "fitlab", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Marco", got.Lead.Name)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, []string{"Mon 10/03 14:00"}, got.Messages[1].Buttons)
}

func TestRedisStoreAllScansTenant(t *testing.T) {
	s := newRedisConvStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Save(ctx, NewConversation("fitlab", "user-1", "", now)))
	require.NoError(t, s.Save(ctx, NewConversation("fitlab", "user-2", "", now)))
	require.NoError(t, s.Save(ctx, NewConversation("dental", "user-3", "", now)))

	convs, err := s.All(ctx, "fitlab")
	require.NoError(t, err)
	assert.Len(t, convs, 2)
}
