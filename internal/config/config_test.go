package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "memory", cfg.TenantStore)
	assert.Equal(t, "memory", cfg.ConversationStore)
	assert.Equal(t, 72*time.Hour, cfg.ConversationTTL)
	assert.Equal(t, 10*time.Minute, cfg.ConversationSweep)
	assert.True(t, cfg.SeedDemoTenant)
	assert.Equal(t, "primary", cfg.GoogleCalendarID)
	assert.Equal(t, 8*time.Second, cfg.CalendarTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TENANT_STORE", "Redis")
	t.Setenv("CONVERSATION_TTL", "1h")
	t.Setenv("SEED_DEMO_TENANT", "false")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.TenantStore)
	assert.Equal(t, time.Hour, cfg.ConversationTTL)
	assert.False(t, cfg.SeedDemoTenant)
	assert.True(t, cfg.RedisTLS)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CONVERSATION_TTL", "not-a-duration")
	t.Setenv("SEED_DEMO_TENANT", "maybe")

	cfg := Load()
	assert.Equal(t, 72*time.Hour, cfg.ConversationTTL)
	assert.True(t, cfg.SeedDemoTenant)
}
