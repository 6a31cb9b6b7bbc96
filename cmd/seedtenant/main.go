// Command seedtenant loads a tenant configuration from a JSON file,
// validates it and writes it to the Redis tenant store.
//
// Usage: seedtenant <tenant-config.json>
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/stagehand-ai/stagehand/internal/config"
	"github.com/stagehand-ai/stagehand/internal/tenant"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seedtenant <tenant-config.json>")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read config file failed", "file", os.Args[1], "error", err)
		os.Exit(1)
	}

	var tc tenant.Config
	if err := json.Unmarshal(data, &tc); err != nil {
		logger.Error("parse config file failed", "file", os.Args[1], "error", err)
		os.Exit(1)
	}
	if err := tc.Validate(); err != nil {
		logger.Error("tenant config invalid", "tenant_id", tc.ID, "error", err)
		os.Exit(1)
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	store := tenant.NewRedisStore(client)
	if err := store.Set(ctx, &tc); err != nil {
		logger.Error("store tenant config failed", "tenant_id", tc.ID, "error", err)
		os.Exit(1)
	}

	logger.Info("tenant config stored",
		"tenant_id", tc.ID,
		"business", tc.BusinessName,
		"required_fields", tc.RequiredFields,
	)
}
