package factory

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/chessclub/internal/dependencies/mocks"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/ratings"
	"github.com/mcoot/chessclub/internal/services/search"
	"github.com/mcoot/chessclub/internal/services/wizard"
	"github.com/mcoot/chessclub/internal/storage/memory"
)

// Events loaded by LoadTestData
const (
	TestEventID       model.EventID = "winter-open"
	TestClosedEventID model.EventID = "spring-quads"
	TestPastEventID   model.EventID = "fall-classic"
)

const testSeed = `
events:
  - id: winter-open
    title: Winter Open
    description: Five round Swiss in three sections.
    date: 2024-02-10T09:00:00Z
    location: Community Center
    entryFee: "$40"
    timeControl: G/60;d5
    rounds: 5
    sections:
      - id: open
        name: Open Section
        entryFee: 40
        sortOrder: 1
      - id: u1600
        name: Under 1600
        entryFee: 30
        maxRating: 1600
        sortOrder: 2
      - id: u1000
        name: Under 1000
        entryFee: 20
        maxRating: 1000
        sortOrder: 3
  - id: spring-quads
    title: Spring Quads
    date: 2024-04-06T10:00:00Z
    entryFee: "$20"
    registrationOpen: false
  - id: fall-classic
    title: Fall Classic
    date: 2023-10-14T09:00:00Z
    entryFee: "$35"
`

// TestMembers are loaded into the static directory by LoadTestData
func TestMembers() []model.CandidateProfile {
	r1500, r1850 := 1500, 1850
	return []model.CandidateProfile{
		{
			ID: "12345678", FirstName: "John", LastName: "Smith", StateRep: "CA",
			ExpirationDate: "2026-01-02",
			Ratings:        []model.Rating{{RatingSystem: model.RegularRatingSystem, Rating: &r1500}},
		},
		{
			ID: "87654321", FirstName: "Jane", LastName: "Smithers", StateRep: "NY",
			ExpirationDate: "2025-06-30",
			Ratings:        []model.Rating{{RatingSystem: model.RegularRatingSystem, Rating: &r1850}},
		},
		{ID: "11112222", FirstName: "Bob", LastName: "Jones", StateRep: "TX"},
	}
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDs
	Members    *ratings.StaticDirectory
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Player searches use the static directory and settle when MockClock advances.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDs()
	members := ratings.NewStaticDirectory()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, members, search.DefaultConfig(), wizard.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
		Members:    members,
	}
}

// LoadTestData seeds the test events and members
func (t *TestApp) LoadTestData(ctx context.Context) error {
	if err := t.EventService.LoadSeed(ctx, strings.NewReader(testSeed)); err != nil {
		return err
	}
	return t.Members.LoadMembers(TestMembers())
}

// SettleSearches advances the clock past the debounce delay so pending
// searches are issued
func (t *TestApp) SettleSearches() {
	t.MockClock.Advance(search.DefaultConfig().Delay)
}
