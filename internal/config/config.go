// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StaticRatings selects the in-memory member directory instead of the federation API
const StaticRatings = "static"

// Config holds server settings
type Config struct {
	Port               int
	StorageType        string
	RedisURL           string
	DatabaseURL        string
	RatingsAPIURL      string
	RatingsTimeout     time.Duration
	SearchDebounce     time.Duration
	SessionIdleTimeout time.Duration
	SeedFile           string
	MembersFile        string
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	TraceExporter      string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:               8080,
		StorageType:        "memory",
		RedisURL:           "redis://localhost:6379/0",
		RatingsAPIURL:      "https://ratings-api.uschess.org/api/v1",
		RatingsTimeout:     5 * time.Second,
		SearchDebounce:     300 * time.Millisecond,
		SessionIdleTimeout: 24 * time.Hour,
		SeedFile:           "data/events.yaml",
		MembersFile:        "data/members.json",
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           slog.LevelInfo,
		TraceExporter:      "none",
	}
}

// UseStaticRatings returns true if the in-memory member directory is selected
func (c Config) UseStaticRatings() bool {
	return c.RatingsAPIURL == StaticRatings
}

// Load reads settings from the environment. Values from the given .env files
// (".env" when none are given) fill in variables that are not already set;
// missing files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	var err error

	if v, ok := lookup("PORT"); ok {
		cfg.Port, err = strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %w", err)
		}
		if cfg.Port <= 0 || cfg.Port > 65535 {
			return Config{}, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
		}
	}

	if v, ok := lookup("STORAGE_TYPE"); ok {
		cfg.StorageType = strings.ToLower(v)
	}
	if v, ok := lookup("REDIS_URL"); ok {
		cfg.RedisURL = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := lookup("RATINGS_API_URL"); ok {
		cfg.RatingsAPIURL = strings.TrimRight(v, "/")
	}
	if v, ok := lookup("RATINGS_TIMEOUT"); ok {
		cfg.RatingsTimeout, err = parseDuration("RATINGS_TIMEOUT", v)
		if err != nil {
			return Config{}, err
		}
	}
	if v, ok := lookup("SEARCH_DEBOUNCE"); ok {
		cfg.SearchDebounce, err = parseDuration("SEARCH_DEBOUNCE", v)
		if err != nil {
			return Config{}, err
		}
	}
	if v, ok := lookup("SESSION_IDLE_TIMEOUT"); ok {
		cfg.SessionIdleTimeout, err = parseDuration("SESSION_IDLE_TIMEOUT", v)
		if err != nil {
			return Config{}, err
		}
	}
	if v, ok := lookup("SEED_FILE"); ok {
		cfg.SeedFile = v
	}
	if v, ok := lookup("MEMBERS_FILE"); ok {
		cfg.MembersFile = v
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	if v, ok := lookup("TRACE_EXPORTER"); ok {
		cfg.TraceExporter = strings.ToLower(v)
	}

	if cfg.StorageType == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL required when STORAGE_TYPE=postgres")
	}

	return cfg, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
