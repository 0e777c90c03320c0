package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisURL    string

	// Firebase Config
	FirebaseCredentials string

	// Twilio Config
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// SMTP Settings
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Engine Settings
	EventLogCapacity    int
	MonitorInterval     time.Duration
	DispatchInterval    time.Duration
	SendTimeout         time.Duration
	BreachRenotifyAfter time.Duration
	EscalationDedup     bool
	ArchiveEnabled      bool

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		// Firebase
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		// Twilio
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@disputetrack.local"),

		// Engine settings
		EventLogCapacity:    getEnvAsInt("EVENT_LOG_CAPACITY", 1000),
		MonitorInterval:     getEnvAsDuration("MONITOR_INTERVAL_SECONDS", 30) * time.Second,
		DispatchInterval:    getEnvAsDuration("DISPATCH_INTERVAL_SECONDS", 30) * time.Second,
		SendTimeout:         getEnvAsDuration("SEND_TIMEOUT_SECONDS", 15) * time.Second,
		BreachRenotifyAfter: getEnvAsDuration("BREACH_RENOTIFY_HOURS", 24) * time.Hour,
		EscalationDedup:     getEnvAsBool("ESCALATION_DEDUP", true),
		ArchiveEnabled:      getEnvAsBool("ARCHIVE_ENABLED", false),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW_MINUTES", 1) * time.Minute,
	}
}

// InitRedis connects the Redis client used for rate limiting. Returns nil
// when no Redis URL is configured.
func InitRedis(cfg *Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		opt = &redis.Options{
			Addr: "localhost:6379",
		}
	}

	return redis.NewClient(opt)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue))
}
