package config

import (
	"os"
	"strconv"
	"time"
)

// Registry holds credentials and tuning for the upstream case registry.
// An empty APIKey disables all registry operations; callers fail fast
// instead of attempting anonymous access.
type Registry struct {
	BaseURL     string
	APIKey      string
	LicenseID   string
	HTTPTimeout time.Duration
	TokenMargin time.Duration
}

// Sync controls the scheduled full-sync loop. A zero Interval disables it.
type Sync struct {
	ReportID int64
	Interval time.Duration
	Timeout  time.Duration
}

// RedisConfig tunes the optional Redis connection used for the token store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the top-level runtime configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	KafkaBrokers  string
	JWTSigningKey string
	Registry      Registry
	Sync          Sync
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("LEXSYNC_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	baseURL := os.Getenv("REGISTRY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://cloudapp.registry.example.com/api"
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		JWTSigningKey: jwtSigningKey,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Registry: Registry{
			BaseURL:     baseURL,
			APIKey:      os.Getenv("REGISTRY_API_KEY"),
			LicenseID:   os.Getenv("REGISTRY_LICENSE_ID"),
			HTTPTimeout: envDuration("REGISTRY_HTTP_TIMEOUT", 30*time.Second),
			TokenMargin: envDuration("REGISTRY_TOKEN_MARGIN", time.Minute),
		},
		Sync: Sync{
			ReportID: envInt64("SYNC_REPORT_ID", 0),
			Interval: envDuration("SYNC_INTERVAL", 0),
			Timeout:  envDuration("SYNC_TIMEOUT", 5*time.Minute),
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
