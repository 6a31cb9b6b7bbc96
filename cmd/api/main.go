package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/stagehand-ai/stagehand/internal/api/router"
	"github.com/stagehand-ai/stagehand/internal/booking"
	"github.com/stagehand-ai/stagehand/internal/calendar"
	appconfig "github.com/stagehand-ai/stagehand/internal/config"
	"github.com/stagehand-ai/stagehand/internal/conversation"
	"github.com/stagehand-ai/stagehand/internal/http/handlers"
	"github.com/stagehand-ai/stagehand/internal/llm"
	"github.com/stagehand-ai/stagehand/internal/messaging"
	"github.com/stagehand-ai/stagehand/internal/observability/metrics"
	"github.com/stagehand-ai/stagehand/internal/tenant"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting stagehand API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.TenantStore == "redis" || cfg.ConversationStore == "redis" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
	}

	// Tenant configs.
	var tenantStore tenant.Store
	if cfg.TenantStore == "redis" {
		tenantStore = tenant.NewRedisStore(redisClient)
	} else {
		tenantStore = tenant.NewMemoryStore()
	}
	if cfg.SeedDemoTenant {
		demo := tenant.DemoFitnessConfig()
		if err := tenantStore.Set(ctx, demo); err != nil {
			logger.Error("seed demo tenant failed", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded demo tenant", "tenant_id", demo.ID)
	}
	registry := tenant.NewRegistry(tenantStore)

	// Conversations.
	var convStore conversation.Store
	if cfg.ConversationStore == "redis" {
		convStore = conversation.NewRedisStore(redisClient, cfg.ConversationTTL)
	} else {
		memStore := conversation.NewMemoryStore(cfg.ConversationTTL, cfg.ConversationSweep, logger)
		defer memStore.Close()
		convStore = memStore
	}

	// Calendar: real Google calendar when credentials are configured,
	// otherwise an in-memory calendar for demos.
	var source calendar.Source
	if cfg.GoogleCredentialsFile != "" {
		creds, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			logger.Error("read google credentials failed", "file", cfg.GoogleCredentialsFile, "error", err)
			os.Exit(1)
		}
		google, err := calendar.NewGoogleSource(ctx, creds, cfg.GoogleCalendarID)
		if err != nil {
			logger.Error("google calendar init failed", "error", err)
			os.Exit(1)
		}
		source = google
		logger.Info("google calendar connected", "calendar_id", cfg.GoogleCalendarID)
	} else {
		fake := calendar.NewFakeSource()
		if cfg.DemoCalendar {
			// Pre-book tomorrow morning so demos show a partially full day.
			tomorrow := time.Now().AddDate(0, 0, 1)
			start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local)
			fake.AddBusy(calendar.Interval{Start: start, End: start.Add(time.Hour)})
		}
		source = fake
		logger.Info("using in-memory calendar")
	}
	resolver := calendar.NewResolver(source, nil)

	// Booking.
	bookingRepo := booking.NewMemoryRepository()
	coordinator := booking.NewCoordinator(bookingRepo, source, resolver, logger)

	// Optional LLM fallback.
	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("gemini init failed", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmClient = gemini
		logger.Info("gemini fallback enabled", "model", cfg.GeminiModelID)
	}

	convMetrics := metrics.NewConversationMetrics(nil)

	engine := conversation.NewEngine(conversation.Deps{
		Conversations:   convStore,
		Resolver:        resolver,
		Coordinator:     coordinator,
		LLM:             llmClient,
		Metrics:         convMetrics,
		Logger:          logger,
		CalendarTimeout: cfg.CalendarTimeout,
		LLMTimeout:      cfg.LLMTimeout,
	})

	// Outbound channel: Twilio when configured, log-only otherwise.
	var sender messaging.Sender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sender = messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, logger)
		logger.Info("twilio whatsapp sender enabled")
	} else {
		sender = messaging.NewLogSender(logger)
		logger.Info("twilio not configured, logging outbound messages")
	}

	webhookHandler := handlers.NewWebhookHandler(registry, engine, sender, logger, cfg.SendTimeout)
	apiHandler := handlers.NewAPIHandler(registry, convStore, resolver, engine, logger)

	healthHandler := handlers.NewHealthHandler(map[string]bool{
		"redis":           redisClient != nil,
		"google_calendar": cfg.GoogleCredentialsFile != "",
		"gemini":          llmClient != nil,
		"twilio":          cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "",
	})

	r := router.New(&router.Config{
		Logger:         logger,
		Health:         healthHandler,
		Webhook:        webhookHandler,
		API:            apiHandler,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
