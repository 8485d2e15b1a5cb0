package ids

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/mcoot/chessclub/internal/dependencies/clock"
)

// Generator produces unique, time-ordered identifiers
type Generator interface {
	New() string
}

// ULIDGenerator generates ULIDs timestamped by the given clock
type ULIDGenerator struct {
	clock   clock.Clock
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a new ULIDGenerator
func New(clk clock.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   clk,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New returns a new ULID string
func (g *ULIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}
