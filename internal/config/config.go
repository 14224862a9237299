package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	App struct {
		Port string
	}
	Upstream struct {
		URL     string
		Timeout time.Duration
	}
	Session struct {
		Secret string
		TTL    time.Duration
	}
	Store struct {
		PostgresDSN string
		SQLitePath  string
	}
	Kafka struct {
		Broker string
		Topic  string
	}
}

// Load reads the environment. Missing .env files are not an error,
// production sets variables directly.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local", ".env")

	cfg := &Config{}

	cfg.App.Port = getEnv("PORT", "8080")

	cfg.Upstream.URL = getEnv("UPSTREAM_API_URL", "http://localhost:8000/api")

	var err error
	cfg.Upstream.Timeout, err = getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.Session.Secret = getEnv("SESSION_TOKEN_SECRET", "")
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_TOKEN_SECRET is required")
	}
	cfg.Session.TTL, err = getEnvAsDuration("SESSION_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.Store.PostgresDSN = getEnv("POSTGRES_DSN", "")
	cfg.Store.SQLitePath = getEnv("SQLITE_PATH", "")

	cfg.Kafka.Broker = getEnv("KAFKA_BROKER", "")
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", "club-portal.events")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, errors.Wrapf(err, "invalid integer for %s", key)
	}
	return value, nil
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d, nil
	}
	secs, err := getEnvAsInt(key, 0)
	if err != nil {
		return fallback, errors.Wrapf(err, "invalid duration for %s", key)
	}
	return time.Duration(secs) * time.Second, nil
}
