package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	Port string `toml:"port"`
	Env  string `toml:"env"`

	// Optional reference store; embedded tables are used when empty or unreachable
	DatabaseURL string `toml:"database_url"`

	// Optional Redis for the search cache and live update events
	RedisAddress  string `toml:"redis_address"`
	RedisPassword string `toml:"redis_password"`
	RedisDatabase int    `toml:"redis_database"`

	CacheTTL       Duration `toml:"cache_ttl"`
	LiveTickPeriod Duration `toml:"live_tick_period"`
	EventsQueue    string   `toml:"events_queue"`
}

// Duration lets TOML files spell durations as "3s" or "90m"
type Duration struct {
	time.Duration
}

// UnmarshalText parses Go duration strings such as "10m" from TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load loads configuration from environment variables, then applies the TOML file at
// path on top when path is non-empty
func Load(path string) (*Config, error) {
	// Try to load .env file (optional for local development)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GO_ENV", "development"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddress:   getEnv("REDIS_ADDRESS", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDatabase:  getEnvInt("REDIS_DATABASE", 0),
		CacheTTL:       Duration{getEnvDuration("CACHE_TTL", 90*time.Minute)},
		LiveTickPeriod: Duration{getEnvDuration("LIVE_TICK_PERIOD", 3*time.Second)},
		EventsQueue:    getEnv("EVENTS_QUEUE", "live-progress"),
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (cfg *Config) Validate() error {
	if cfg.LiveTickPeriod.Duration <= 0 {
		return fmt.Errorf("config: live tick period must be positive, got %s", cfg.LiveTickPeriod)
	}
	if cfg.CacheTTL.Duration < 0 {
		return fmt.Errorf("config: cache ttl must not be negative, got %s", cfg.CacheTTL)
	}
	if cfg.RedisAddress == "" {
		log.Warn().Msg("REDIS_ADDRESS not set, search cache and live events disabled")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring malformed duration")
		return defaultValue
	}
	return d
}
