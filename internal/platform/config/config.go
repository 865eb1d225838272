package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean; every
// value has a development default so the binary runs with no environment at
// all (memory stores, logged sign-in links).
type Server struct {
	Addr          string
	BaseURL       string
	JWTSigningKey string
	PostgresURL   string
	RedisURL      string

	SessionTTL   time.Duration
	LoginLinkTTL time.Duration
	SweepEvery   time.Duration
}

func FromEnv() Server {
	addr := os.Getenv("ALPHASEEK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("ALPHASEEK_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	jwtSigningKey := os.Getenv("ALPHASEEK_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		BaseURL:       baseURL,
		JWTSigningKey: jwtSigningKey,
		PostgresURL:   os.Getenv("ALPHASEEK_POSTGRES_URL"),
		RedisURL:      os.Getenv("ALPHASEEK_REDIS_URL"),
		SessionTTL:    durationFromEnv("ALPHASEEK_SESSION_TTL", 24*time.Hour),
		LoginLinkTTL:  durationFromEnv("ALPHASEEK_LOGIN_LINK_TTL", 15*time.Minute),
		SweepEvery:    durationFromEnv("ALPHASEEK_SWEEP_INTERVAL", time.Hour),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Accept bare seconds for operators who skip the unit suffix.
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
