package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var keys = []string{
	"PORT", "STORAGE_TYPE", "REDIS_URL", "DATABASE_URL", "RATINGS_API_URL", "RATINGS_TIMEOUT",
	"SEARCH_DEBOUNCE", "SEED_FILE", "MEMBERS_FILE", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
	"SESSION_IDLE_TIMEOUT", "TRACE_EXPORTER",
}

type ConfigSuite struct {
	suite.Suite
	missing string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	for _, k := range keys {
		s.T().Setenv(k, "")
		s.Require().NoError(os.Unsetenv(k))
	}
	s.missing = filepath.Join(s.T().TempDir(), "missing.env")
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load(s.missing)
	s.Require().NoError(err)
	s.Equal(Default(), cfg)
	s.Equal(8080, cfg.Port)
	s.Equal(300*time.Millisecond, cfg.SearchDebounce)
	s.Equal(24*time.Hour, cfg.SessionIdleTimeout)
	s.Equal("none", cfg.TraceExporter)
	s.False(cfg.UseStaticRatings())
}

func (s *ConfigSuite) TestEnvironmentOverrides() {
	s.T().Setenv("PORT", "9090")
	s.T().Setenv("STORAGE_TYPE", "Redis")
	s.T().Setenv("RATINGS_API_URL", "static")
	s.T().Setenv("RATINGS_TIMEOUT", "2s")
	s.T().Setenv("SEARCH_DEBOUNCE", "50ms")
	s.T().Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	s.T().Setenv("LOG_LEVEL", "debug")
	s.T().Setenv("SESSION_IDLE_TIMEOUT", "2h")
	s.T().Setenv("TRACE_EXPORTER", "Stdout")

	cfg, err := Load(s.missing)
	s.Require().NoError(err)
	s.Equal(9090, cfg.Port)
	s.Equal("redis", cfg.StorageType)
	s.True(cfg.UseStaticRatings())
	s.Equal(2*time.Second, cfg.RatingsTimeout)
	s.Equal(50*time.Millisecond, cfg.SearchDebounce)
	s.Equal([]string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	s.Equal(slog.LevelDebug, cfg.LogLevel)
	s.Equal(2*time.Hour, cfg.SessionIdleTimeout)
	s.Equal("stdout", cfg.TraceExporter)
}

func (s *ConfigSuite) TestEnvFileFillsUnsetValues() {
	path := filepath.Join(s.T().TempDir(), ".env")
	s.Require().NoError(os.WriteFile(path, []byte("PORT=7000\nSEED_FILE=testdata/seed.yaml\n"), 0o600))
	s.T().Setenv("PORT", "7100")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(7100, cfg.Port)
	s.Equal("testdata/seed.yaml", cfg.SeedFile)
}

func (s *ConfigSuite) TestInvalidValues() {
	cases := map[string]string{
		"PORT":                 "eighty",
		"RATINGS_TIMEOUT":      "soon",
		"SEARCH_DEBOUNCE":      "-1s",
		"SESSION_IDLE_TIMEOUT": "a while",
		"LOG_LEVEL":            "loud",
	}
	for key, value := range cases {
		s.Run(key, func() {
			s.T().Setenv(key, value)
			_, err := Load(s.missing)
			s.Error(err)
			s.Require().NoError(os.Unsetenv(key))
		})
	}
}

func (s *ConfigSuite) TestPortOutOfRange() {
	s.T().Setenv("PORT", "70000")
	_, err := Load(s.missing)
	s.Error(err)
}

func (s *ConfigSuite) TestPostgresRequiresDatabaseURL() {
	s.T().Setenv("STORAGE_TYPE", "postgres")
	_, err := Load(s.missing)
	s.Error(err)

	s.T().Setenv("DATABASE_URL", "postgres://localhost/chessclub")
	cfg, err := Load(s.missing)
	s.Require().NoError(err)
	s.Equal("postgres://localhost/chessclub", cfg.DatabaseURL)
}
