package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/chessclub/internal/config"
	"github.com/mcoot/chessclub/internal/dependencies/clock"
	"github.com/mcoot/chessclub/internal/dependencies/ids"
	"github.com/mcoot/chessclub/internal/dependencies/random"
	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/ratings"
	"github.com/mcoot/chessclub/internal/services/registration"
	"github.com/mcoot/chessclub/internal/services/search"
	"github.com/mcoot/chessclub/internal/services/terms"
	"github.com/mcoot/chessclub/internal/services/wizard"
	"github.com/mcoot/chessclub/internal/storage"
	"github.com/mcoot/chessclub/internal/storage/memory"
	"github.com/mcoot/chessclub/internal/storage/postgres"
	redisstorage "github.com/mcoot/chessclub/internal/storage/redis"
	"github.com/mcoot/chessclub/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	IDs       ids.Generator
	Directory ratings.Directory

	// Services
	EventService        *events.Service
	RegistrationService *registration.Service
	Searches            *search.Debouncer
	WizardController    *wizard.Controller
	TermsRenderer       *terms.Renderer
	HubManager          *sse.HubManager

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config

	// RatingsAPIURL is the federation ratings API. Empty or "static" uses the
	// in-memory member directory loaded from MembersFile.
	RatingsAPIURL  string
	RatingsTimeout time.Duration
	// MembersFile is a JSON member list for the static directory (optional)
	MembersFile string

	// SeedFile is a YAML file of events to load at startup (optional)
	SeedFile string

	// SearchDebounce is the quiet period before a player search is issued.
	// If zero, the debouncer default is used.
	SearchDebounce time.Duration

	// SessionIdleTimeout is how long an untouched wizard session is kept.
	// If zero, the controller default is used.
	SessionIdleTimeout time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgres.New(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
		closers = append(closers, pgStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	idgen := ids.New(clk)

	directory, err := newDirectory(cfg, clk, logger)
	if err != nil {
		closeAll(closers)
		return nil, err
	}

	searchCfg := search.DefaultConfig()
	if cfg.SearchDebounce > 0 {
		searchCfg.Delay = cfg.SearchDebounce
	}

	wizardCfg := wizard.DefaultConfig()
	if cfg.SessionIdleTimeout > 0 {
		wizardCfg.IdleTimeout = cfg.SessionIdleTimeout
	}

	app := newWithDependencies(store, clk, rnd, idgen, directory, searchCfg, wizardCfg, logger)
	app.closers = closers

	if cfg.SeedFile != "" {
		if err := app.EventService.LoadSeedFile(context.Background(), cfg.SeedFile); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to load seed file %s: %w", cfg.SeedFile, err)
		}
	}

	return app, nil
}

func newDirectory(cfg Config, clk clock.Clock, logger *slog.Logger) (ratings.Directory, error) {
	if cfg.RatingsAPIURL == "" || cfg.RatingsAPIURL == config.StaticRatings {
		directory := ratings.NewStaticDirectory()
		if cfg.MembersFile != "" {
			if err := directory.LoadFromFile(cfg.MembersFile); err != nil {
				return nil, fmt.Errorf("failed to load members file %s: %w", cfg.MembersFile, err)
			}
		}
		return directory, nil
	}

	ratingsCfg := ratings.DefaultConfig()
	ratingsCfg.BaseURL = cfg.RatingsAPIURL
	if cfg.RatingsTimeout > 0 {
		ratingsCfg.Timeout = cfg.RatingsTimeout
	}
	return ratings.NewClient(ratingsCfg, clk, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	idgen ids.Generator,
	directory ratings.Directory,
	searchCfg search.Config,
	wizardCfg wizard.Config,
	logger *slog.Logger,
) *App {
	// Create services
	eventService := events.New(store, clk, logger)
	registrationService := registration.New(store, clk, idgen, logger)
	searches := search.New(directory, clk, searchCfg, logger)
	wizardController := wizard.NewController(
		store, eventService, directory, searches, registrationService,
		clk, rnd, wizardCfg, logger,
	)
	hubManager := sse.NewHubManager(logger)
	wizardController.SetNotifier(sse.NewBroadcaster(hubManager, logger))

	return &App{
		Storage:             store,
		Clock:               clk,
		Random:              rnd,
		IDs:                 idgen,
		Directory:           directory,
		EventService:        eventService,
		RegistrationService: registrationService,
		Searches:            searches,
		WizardController:    wizardController,
		TermsRenderer:       terms.NewRenderer(),
		HubManager:          hubManager,
	}
}

// Close stops background work and releases storage connections
func (a *App) Close() error {
	a.Searches.Close()
	a.HubManager.Close()
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
