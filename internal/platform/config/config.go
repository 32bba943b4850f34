// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honored in development; real environments set
// variables directly.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Server   Server
	JWT      JWT
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Media    Media
	LogLevel string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// JWT configures access token validation.
type JWT struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// Postgres configures the profile store. An empty URL selects the in-memory
// store, which keeps local development free of infrastructure.
type Postgres struct {
	URL string
}

// Redis configures the credential store. An empty URL selects the in-memory
// store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures lifecycle event publishing. Empty brokers disable it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Media configures the media cleanup hook. An empty base URL disables it.
type Media struct {
	BaseURL string
}

// FromEnv loads a .env file when present and builds the configuration.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:            envStr("DOJOROLL_ADDR", ":8080"),
			ShutdownTimeout: envDur("DOJOROLL_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		JWT: JWT{
			// The default is for development only.
			SigningKey: envStr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     envStr("JWT_ISSUER", "dojoroll"),
			Audience:   envStr("JWT_AUDIENCE", "dojoroll-api"),
		},
		Postgres: Postgres{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envStr("KAFKA_TOPIC", "dojoroll.lifecycle"),
		},
		Media: Media{
			BaseURL: os.Getenv("MEDIA_BASE_URL"),
		},
		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
