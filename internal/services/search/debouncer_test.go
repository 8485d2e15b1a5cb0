package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessclub/internal/dependencies/mocks"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/testutil"
)

// fakeLookup records queries and answers from a fixed table
type fakeLookup struct {
	mu      sync.Mutex
	queries []string
	results map[string][]model.CandidateProfile
	err     error

	// When set, a search for blockQuery signals started and waits for release
	blockQuery string
	started    chan struct{}
	release    chan struct{}
}

func (f *fakeLookup) Search(ctx context.Context, query string) ([]model.CandidateProfile, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	results := f.results[query]
	err := f.err
	block := f.blockQuery == query
	f.mu.Unlock()

	if block {
		close(f.started)
		<-f.release
	}
	return results, err
}

func (f *fakeLookup) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type DebouncerSuite struct {
	suite.Suite
	lookup    *fakeLookup
	clock     *mocks.MockClock
	debouncer *Debouncer

	mu      sync.Mutex
	results []Result
}

func TestDebouncerSuite(t *testing.T) {
	suite.Run(t, new(DebouncerSuite))
}

func (s *DebouncerSuite) SetupTest() {
	s.lookup = &fakeLookup{results: map[string][]model.CandidateProfile{
		"Smith": {{ID: "12345678", FirstName: "John", LastName: "Smith"}},
	}}
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.debouncer = New(s.lookup, s.clock, DefaultConfig(), testutil.NopLogger())
	s.results = nil
	s.debouncer.OnResult(func(r Result) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.results = append(s.results, r)
	})
}

func (s *DebouncerSuite) delivered() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func (s *DebouncerSuite) TestShortQueryIssuesNoLookup() {
	for _, q := range []string{"", "S", " S "} {
		ticket := s.debouncer.Schedule("sess-1", q)
		s.False(ticket.Searching)
	}

	s.clock.Advance(time.Second)

	s.Empty(s.lookup.calls())
	s.Empty(s.delivered())
	s.Equal(0, s.clock.PendingTimers())
}

func (s *DebouncerSuite) TestSearchWaitsForQuietPeriod() {
	ticket := s.debouncer.Schedule("sess-1", "Smith")
	s.True(ticket.Searching)

	s.clock.Advance(299 * time.Millisecond)
	s.Empty(s.lookup.calls())

	s.clock.Advance(time.Millisecond)
	s.Equal([]string{"Smith"}, s.lookup.calls())

	results := s.delivered()
	s.Require().Len(results, 1)
	s.Equal(ticket.Seq, results[0].Seq)
	s.Equal("sess-1", results[0].Key)
	s.Require().Len(results[0].Candidates, 1)
	s.Equal("12345678", results[0].Candidates[0].ID)
}

func (s *DebouncerSuite) TestRapidKeystrokesIssueOneLookupForFinalQuery() {
	for _, q := range []string{"Sm", "Smi", "Smit", "Smith"} {
		s.debouncer.Schedule("sess-1", q)
		s.clock.Advance(100 * time.Millisecond)
	}
	s.clock.Advance(300 * time.Millisecond)

	s.Equal([]string{"Smith"}, s.lookup.calls())
	s.Len(s.delivered(), 1)
}

func (s *DebouncerSuite) TestShortQueryCancelsPendingSearch() {
	s.debouncer.Schedule("sess-1", "Smith")
	ticket := s.debouncer.Schedule("sess-1", "S")
	s.False(ticket.Searching)

	s.clock.Advance(time.Second)

	s.Empty(s.lookup.calls())
}

func (s *DebouncerSuite) TestKeysAreIndependent() {
	s.debouncer.Schedule("sess-1", "Smith")
	s.debouncer.Schedule("sess-2", "Lovelace")

	s.clock.Advance(300 * time.Millisecond)

	s.ElementsMatch([]string{"Smith", "Lovelace"}, s.lookup.calls())
	s.Len(s.delivered(), 2)
}

func (s *DebouncerSuite) TestLookupErrorDeliversEmptyResult() {
	s.lookup.err = errors.New("connection refused")

	s.debouncer.Schedule("sess-1", "Smith")
	s.clock.Advance(300 * time.Millisecond)

	results := s.delivered()
	s.Require().Len(results, 1)
	s.Empty(results[0].Candidates)
}

func (s *DebouncerSuite) TestResultsAreCappedAtTwenty() {
	var many []model.CandidateProfile
	for i := range 30 {
		many = append(many, model.CandidateProfile{ID: fmt.Sprintf("%08d", i)})
	}
	s.lookup.results["Smith"] = many

	s.debouncer.Schedule("sess-1", "Smith")
	s.clock.Advance(300 * time.Millisecond)

	results := s.delivered()
	s.Require().Len(results, 1)
	s.Require().Len(results[0].Candidates, 20)
	s.Equal("00000000", results[0].Candidates[0].ID)
	s.Equal("00000019", results[0].Candidates[19].ID)
}

func (s *DebouncerSuite) TestStaleInFlightResponseIsDiscarded() {
	s.lookup.blockQuery = "Smi"
	s.lookup.started = make(chan struct{})
	s.lookup.release = make(chan struct{})

	s.debouncer.Schedule("sess-1", "Smi")
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.clock.Advance(300 * time.Millisecond)
	}()
	<-s.lookup.started

	newer := s.debouncer.Schedule("sess-1", "Smith")
	close(s.lookup.release)
	<-done

	s.Empty(s.delivered())

	s.clock.Advance(300 * time.Millisecond)
	results := s.delivered()
	s.Require().Len(results, 1)
	s.Equal(newer.Seq, results[0].Seq)
	s.Equal("Smith", results[0].Query)
}

func (s *DebouncerSuite) TestSequenceNumbersIncrease() {
	first := s.debouncer.Schedule("sess-1", "Sm")
	second := s.debouncer.Schedule("sess-2", "Sm")
	third := s.debouncer.Schedule("sess-1", "S")

	s.Less(first.Seq, second.Seq)
	s.Less(second.Seq, third.Seq)
}

func (s *DebouncerSuite) TestForgetCancelsPendingSearch() {
	s.debouncer.Schedule("sess-1", "Smith")
	s.Equal(1, s.debouncer.Pending())

	s.debouncer.Forget("sess-1")
	s.clock.Advance(time.Second)

	s.Empty(s.lookup.calls())
	s.Equal(0, s.debouncer.Pending())
}

func (s *DebouncerSuite) TestCloseStopsEverything() {
	s.debouncer.Schedule("sess-1", "Smith")
	s.debouncer.Close()

	ticket := s.debouncer.Schedule("sess-1", "Smith")
	s.False(ticket.Searching)

	s.clock.Advance(time.Second)
	s.Empty(s.lookup.calls())
}
