// Package search debounces keystroke-driven player searches.
package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/chessclub/internal/dependencies/clock"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/ratings"
)

// Lookup is the player search the debouncer throttles
type Lookup interface {
	Search(ctx context.Context, query string) ([]model.CandidateProfile, error)
}

// Config holds debouncer settings
type Config struct {
	// Delay is the quiet period after the last keystroke before a search is issued
	Delay time.Duration

	// MaxResults caps the candidates delivered per search
	MaxResults int
}

// DefaultConfig returns the default debouncer settings
func DefaultConfig() Config {
	return Config{
		Delay:      300 * time.Millisecond,
		MaxResults: 20,
	}
}

// Ticket describes a query immediately after it was scheduled
type Ticket struct {
	Seq       uint64
	Query     string
	Searching bool // False when the query is too short and results should be cleared
}

// Result is delivered once a scheduled search settles.
// Lookup errors are logged and delivered as an empty result.
type Result struct {
	Key        string
	Seq        uint64
	Query      string
	Candidates []model.CandidateProfile
}

// ResultFunc receives settled searches. It is called from timer goroutines.
type ResultFunc func(Result)

// Debouncer schedules searches per key (one key per wizard session). For each
// key at most one timer is pending and at most one lookup is in flight, and only
// the latest query's result is ever delivered.
type Debouncer struct {
	lookup Lookup
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	seq      uint64
	entries  map[string]*entry
	onResult ResultFunc
	closed   bool
}

type entry struct {
	seq    uint64
	timer  clock.Timer
	cancel context.CancelFunc // Cancels the in-flight lookup, if any
}

// New creates a new Debouncer
func New(lookup Lookup, clk clock.Clock, cfg Config, logger *slog.Logger) *Debouncer {
	return &Debouncer{
		lookup:  lookup,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// OnResult sets the function that receives settled searches
func (d *Debouncer) OnResult(f ResultFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onResult = f
}

// Schedule supersedes any pending or in-flight search for the key. Queries
// shorter than the minimum length are not searched at all.
func (d *Debouncer) Schedule(key, query string) Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	e, ok := d.entries[key]
	if !ok {
		e = &entry{}
		d.entries[key] = e
	}
	e.seq = d.seq
	e.stop()

	q, ok := ratings.NormalizeQuery(query)
	if !ok || d.closed {
		return Ticket{Seq: e.seq, Query: query}
	}

	seq := e.seq
	e.timer = d.clock.AfterFunc(d.cfg.Delay, func() {
		d.fire(key, seq, q)
	})
	return Ticket{Seq: seq, Query: q, Searching: true}
}

// Forget cancels any pending or in-flight search for the key
func (d *Debouncer) Forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.entries[key]; ok {
		e.stop()
		delete(d.entries, key)
	}
}

// Pending returns the number of keys with a scheduled or in-flight search
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, e := range d.entries {
		if e.timer != nil || e.cancel != nil {
			count++
		}
	}
	return count
}

// Close cancels all searches. Later calls to Schedule never search.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key, e := range d.entries {
		e.stop()
		delete(d.entries, key)
	}
}

func (d *Debouncer) fire(key string, seq uint64, query string) {
	d.mu.Lock()
	e, ok := d.entries[key]
	if !ok || e.seq != seq || d.closed {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.timer = nil
	e.cancel = cancel
	d.mu.Unlock()

	candidates, err := d.lookup.Search(ctx, query)
	superseded := ctx.Err() != nil
	cancel()

	if err != nil {
		if !superseded {
			d.logger.Warn("player search failed",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
		}
		candidates = nil
	}
	if len(candidates) > d.cfg.MaxResults {
		candidates = candidates[:d.cfg.MaxResults]
	}

	d.mu.Lock()
	e, ok = d.entries[key]
	current := ok && e.seq == seq
	if current {
		e.cancel = nil
	}
	onResult := d.onResult
	d.mu.Unlock()

	if !current {
		d.logger.Debug("discarding stale search result",
			slog.String("key", key),
			slog.String("query", query),
		)
		return
	}
	if onResult != nil {
		onResult(Result{Key: key, Seq: seq, Query: query, Candidates: candidates})
	}
}

func (e *entry) stop() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
