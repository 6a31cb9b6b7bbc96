package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Stores: "memory" or "redis". Memory stores are single-process only.
	TenantStore       string
	ConversationStore string
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool

	// Conversations idle longer than this are evicted (memory store) or
	// expired (redis store).
	ConversationTTL       time.Duration
	ConversationSweep     time.Duration
	SeedDemoTenant        bool
	DemoCalendar          bool
	TwilioAccountSID      string
	TwilioAuthToken       string
	TwilioWhatsAppNumber  string
	GoogleCredentialsFile string
	GoogleCalendarID      string
	GeminiAPIKey          string
	GeminiModelID         string

	// Caller-imposed bounds on external calls.
	CalendarTimeout time.Duration
	LLMTimeout      time.Duration
	SendTimeout     time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TenantStore:       strings.ToLower(getEnv("TENANT_STORE", "memory")),
		ConversationStore: strings.ToLower(getEnv("CONVERSATION_STORE", "memory")),
		RedisAddr:         getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),

		ConversationTTL:       getEnvAsDuration("CONVERSATION_TTL", 72*time.Hour),
		ConversationSweep:     getEnvAsDuration("CONVERSATION_SWEEP_INTERVAL", 10*time.Minute),
		SeedDemoTenant:        getEnvAsBool("SEED_DEMO_TENANT", true),
		DemoCalendar:          getEnvAsBool("DEMO_CALENDAR", false),
		TwilioAccountSID:      getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:       getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber:  getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:         getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		CalendarTimeout: getEnvAsDuration("CALENDAR_TIMEOUT", 8*time.Second),
		LLMTimeout:      getEnvAsDuration("LLM_TIMEOUT", 10*time.Second),
		SendTimeout:     getEnvAsDuration("SEND_TIMEOUT", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
