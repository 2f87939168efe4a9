package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	DBMaxConns    int32
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Tokens are issued by the identity service; this backend only verifies them.
	JWTSecret string
	JWTIssuer string

	// Requests per minute per client IP on /api/v1.
	RateLimit          int64
	CORSAllowedOrigins []string

	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`

	// AMQPURL empty means events are only logged.
	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`

	MetricsEnabled bool
	MetricsAddr    string

	MetalRateCacheTTL  time.Duration
	MetalRateCacheSize int

	RecurringInterval time.Duration
	ReminderInterval  time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("RATE_LIMIT", 120)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "hifzmaal.events")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_ADDR", ":9091")
	viper.SetDefault("METAL_RATE_CACHE_TTL", "1h")
	viper.SetDefault("METAL_RATE_CACHE_SIZE", 64)
	viper.SetDefault("RECURRING_INTERVAL", "1h")
	viper.SetDefault("REMINDER_INTERVAL", "24h")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		DBMaxConns:         viper.GetInt32("DB_MAX_CONNS"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		RateLimit:          viper.GetInt64("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		PosthogAPIKey:      viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:    viper.GetString("POSTHOG_ENDPOINT"),
		AMQPURL:            viper.GetString("AMQP_URL"),
		AMQPExchange:       viper.GetString("AMQP_EXCHANGE"),
		MetricsEnabled:     viper.GetBool("METRICS_ENABLED"),
		MetricsAddr:        viper.GetString("METRICS_ADDR"),
		MetalRateCacheSize: viper.GetInt("METAL_RATE_CACHE_SIZE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.RateLimit <= 0 {
		log.Printf("Warning: Invalid value for RATE_LIMIT (%d). Defaulting to 120.\n", cfg.RateLimit)
		cfg.RateLimit = 120
	}
	if cfg.MetalRateCacheSize <= 0 {
		cfg.MetalRateCacheSize = 64
	}
	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Domain events will only be logged.")
	}

	cfg.MetalRateCacheTTL = durationOr("METAL_RATE_CACHE_TTL", time.Hour)
	cfg.RecurringInterval = durationOr("RECURRING_INTERVAL", time.Hour)
	cfg.ReminderInterval = durationOr("REMINDER_INTERVAL", 24*time.Hour)

	return cfg, nil
}

// durationOr parses a duration setting such as "60m" or "1h", falling back on bad input.
func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
