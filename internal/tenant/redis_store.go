package tenant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tenant:config:"

// RedisStore persists tenant configurations in Redis so multiple API
// processes can share them.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed tenant store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

func (s *RedisStore) key(tenantID string) string {
	return redisKeyPrefix + tenantID
}

// Get loads a tenant config from Redis.
func (s *RedisStore) Get(ctx context.Context, tenantID string) (*Config, error) {
	data, err := s.redis.Get(ctx, s.key(tenantID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: redis get %s: %w", tenantID, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tenant: decode config %s: %w", tenantID, err)
	}
	return &cfg, nil
}

// Set validates and stores a config with no expiry.
func (s *RedisStore) Set(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("tenant: store config: %w", err)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("tenant: encode config %s: %w", cfg.ID, err)
	}
	if err := s.redis.Set(ctx, s.key(cfg.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("tenant: redis set %s: %w", cfg.ID, err)
	}
	return nil
}

// List scans Redis for all configured tenant ids.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.redis.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("tenant: redis scan: %w", err)
	}
	return ids, nil
}
