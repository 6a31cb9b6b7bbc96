package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "conv:"

// RedisStore persists conversations in Redis behind the same Store
// contract, for multi-process deployments. The idle TTL is enforced by
// key expiry instead of a janitor.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed conversation store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl}
}

func (s *RedisStore) key(tenantID, userID string) string {
	return redisKeyPrefix + tenantID + ":" + userID
}

// Get loads a conversation.
func (s *RedisStore) Get(ctx context.Context, tenantID, userID string) (*Conversation, error) {
	data, err := s.redis.Get(ctx, s.key(tenantID, userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: redis get: %w", err)
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("conversation: decode: %w", err)
	}
	return &conv, nil
}

// Save stores the conversation, refreshing its expiry.
func (s *RedisStore) Save(ctx context.Context, conv *Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("conversation: encode: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(conv.TenantID, conv.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("conversation: redis set: %w", err)
	}
	return nil
}

// All scans the tenant's conversations.
func (s *RedisStore) All(ctx context.Context, tenantID string) ([]*Conversation, error) {
	var out []*Conversation
	iter := s.redis.Scan(ctx, 0, redisKeyPrefix+tenantID+":*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.redis.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var conv Conversation
		if err := json.Unmarshal(data, &conv); err != nil {
			continue
		}
		out = append(out, &conv)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("conversation: redis scan: %w", err)
	}
	return out, nil
}
