package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessclub/internal/dependencies/mocks"
	"github.com/mcoot/chessclub/internal/dependencies/random"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/ratings"
	"github.com/mcoot/chessclub/internal/services/registration"
	"github.com/mcoot/chessclub/internal/services/search"
	"github.com/mcoot/chessclub/internal/storage/memory"
	"github.com/mcoot/chessclub/internal/testutil"
)

const testEvent = model.EventID("winter-open")

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.WizardEvent
}

func (n *recordingNotifier) NotifyWizard(ctx context.Context, event model.WizardEvent, wizard *model.Wizard) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []model.WizardEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]model.WizardEventType, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ids        *mocks.MockIDs
	notifier   *recordingNotifier
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func intPtr(v int) *int {
	return &v
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs()
	s.notifier = &recordingNotifier{}
	s.ctx = context.Background()
	logger := testutil.NopLogger()

	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{
		ID:               testEvent,
		Title:            "Winter Open",
		EventDate:        s.clock.Now().Add(30 * 24 * time.Hour),
		IsActive:         true,
		RegistrationOpen: true,
		RoundCount:       5,
	}))
	s.Require().NoError(s.storage.SaveSection(s.ctx, &model.Section{
		ID: "sec-open", EventID: testEvent, Name: "Open Section", EntryFee: intPtr(40), SortOrder: 1,
	}))
	s.Require().NoError(s.storage.SaveSection(s.ctx, &model.Section{
		ID: "sec-u1200", EventID: testEvent, Name: "Under 1200", EntryFee: intPtr(30), MaxRating: intPtr(1200), SortOrder: 2,
	}))

	directory := ratings.NewStaticDirectory()
	s.Require().NoError(directory.LoadMembers([]model.CandidateProfile{
		{
			ID: "12345678", FirstName: "John", LastName: "Smith", StateRep: "CA", ExpirationDate: "2026-01-02",
			Ratings: []model.Rating{{RatingSystem: model.RegularRatingSystem, Rating: intPtr(1500)}},
		},
		{ID: "87654321", FirstName: "Jane", LastName: "Smithers", StateRep: "NY"},
		{ID: "11112222", FirstName: "Bob", LastName: "Jones"},
	}))

	eventService := events.New(s.storage, s.clock, logger)
	searches := search.New(directory, s.clock, search.DefaultConfig(), logger)
	submitter := registration.New(s.storage, s.clock, s.ids, logger)

	s.controller = NewController(s.storage, eventService, directory, searches, submitter, s.clock, random.New(), DefaultConfig(), logger)
	s.controller.SetNotifier(s.notifier)
}

func (s *ControllerSuite) start() *model.Wizard {
	w, err := s.controller.Start(s.ctx, testEvent)
	s.Require().NoError(err)
	return w
}

// advanceTo drives a new session through the steps before the given one
func (s *ControllerSuite) advanceTo(step model.Step) *model.Wizard {
	w := s.start()
	if step > model.StepPlayer {
		var err error
		w, err = s.controller.SelectCandidate(s.ctx, w.ID, "12345678")
		s.Require().NoError(err)
	}
	if step > model.StepContact {
		var err error
		w, err = s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "john@example.com"})
		s.Require().NoError(err)
	}
	if step > model.StepSection {
		var err error
		w, err = s.controller.SelectSection(s.ctx, w.ID, "sec-open")
		s.Require().NoError(err)
	}
	if step > model.StepByes {
		var err error
		w, err = s.controller.ContinueByes(s.ctx, w.ID)
		s.Require().NoError(err)
	}
	s.Require().Equal(step, w.Step)
	return w
}

func (s *ControllerSuite) get(id model.SessionID) *model.Wizard {
	w, err := s.controller.Get(s.ctx, id)
	s.Require().NoError(err)
	return w
}

// Start tests

func (s *ControllerSuite) TestStartCreatesSession() {
	w := s.start()

	s.Len(string(w.ID), SessionIDLength)
	s.Equal(testEvent, w.EventID)
	s.Equal(model.StepPlayer, w.Step)
	s.Equal(model.StepPlayer, w.Furthest)
	s.Equal(model.NotifyEmail, w.Draft.NotificationPreference)

	stored := s.get(w.ID)
	s.Equal(w.ID, stored.ID)
}

func (s *ControllerSuite) TestStartRejectsClosedEvent() {
	event, err := s.storage.GetEvent(s.ctx, testEvent)
	s.Require().NoError(err)
	event.RegistrationOpen = false
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))

	_, err = s.controller.Start(s.ctx, testEvent)
	s.ErrorIs(err, model.ErrRegistrationClosed)
}

func (s *ControllerSuite) TestStartRejectsPastEvent() {
	s.clock.Advance(60 * 24 * time.Hour)

	_, err := s.controller.Start(s.ctx, testEvent)
	s.ErrorIs(err, model.ErrRegistrationClosed)
}

func (s *ControllerSuite) TestStartUnknownEvent() {
	_, err := s.controller.Start(s.ctx, "nope")
	s.ErrorIs(err, model.ErrEventNotFound)
}

// Search tests

func (s *ControllerSuite) TestSearchIsDebounced() {
	w := s.start()

	w, err := s.controller.Search(s.ctx, w.ID, "Smith")
	s.Require().NoError(err)
	s.True(w.Search.Searching)
	s.Equal("Smith", w.Search.Query)
	s.Empty(w.Search.Results)

	s.clock.Advance(299 * time.Millisecond)
	s.True(s.get(w.ID).Search.Searching)

	s.clock.Advance(time.Millisecond)
	w = s.get(w.ID)
	s.False(w.Search.Searching)
	s.Require().Len(w.Search.Results, 2)
	s.Equal("John", w.Search.Results[0].FirstName)
	s.Equal("Jane", w.Search.Results[1].FirstName)
	s.Equal([]model.WizardEventType{model.EventSearchUpdated}, s.notifier.types())
}

func (s *ControllerSuite) TestSearchKeepsOnlyLatestQuery() {
	w := s.start()

	_, err := s.controller.Search(s.ctx, w.ID, "Smi")
	s.Require().NoError(err)
	s.clock.Advance(100 * time.Millisecond)
	_, err = s.controller.Search(s.ctx, w.ID, "Smithers")
	s.Require().NoError(err)
	s.clock.Advance(300 * time.Millisecond)

	w = s.get(w.ID)
	s.Equal("Smithers", w.Search.Query)
	s.Require().Len(w.Search.Results, 1)
	s.Equal("87654321", w.Search.Results[0].ID)
	s.Len(s.notifier.types(), 1)
}

func (s *ControllerSuite) TestShortQueryClearsResults() {
	w := s.start()
	_, err := s.controller.Search(s.ctx, w.ID, "Smith")
	s.Require().NoError(err)
	s.clock.Advance(300 * time.Millisecond)
	s.Require().NotEmpty(s.get(w.ID).Search.Results)

	w, err = s.controller.Search(s.ctx, w.ID, "S")
	s.Require().NoError(err)
	s.False(w.Search.Searching)
	s.Empty(w.Search.Results)
	s.Equal(0, s.clock.PendingTimers())
}

func (s *ControllerSuite) TestStaleResultIsDiscarded() {
	w := s.start()
	w, err := s.controller.Search(s.ctx, w.ID, "Jones")
	s.Require().NoError(err)

	s.controller.applySearchResult(search.Result{
		Key:        string(w.ID),
		Seq:        w.Search.Seq - 1,
		Query:      "Smith",
		Candidates: []model.CandidateProfile{{ID: "12345678"}},
	})

	w = s.get(w.ID)
	s.True(w.Search.Searching)
	s.Empty(w.Search.Results)
	s.Empty(s.notifier.types())
}

func (s *ControllerSuite) TestResultAfterSelectionIsDiscarded() {
	w := s.start()
	w, err := s.controller.Search(s.ctx, w.ID, "Smith")
	s.Require().NoError(err)
	seq := w.Search.Seq

	_, err = s.controller.SelectCandidate(s.ctx, w.ID, "11112222")
	s.Require().NoError(err)
	s.controller.applySearchResult(search.Result{Key: string(w.ID), Seq: seq, Query: "Smith"})

	w = s.get(w.ID)
	s.Equal(model.StepContact, w.Step)
	s.Empty(w.Search.Results)
	s.Equal(0, s.clock.PendingTimers())
}

// Player step tests

func (s *ControllerSuite) TestSelectCandidateFromResults() {
	w := s.start()
	_, err := s.controller.Search(s.ctx, w.ID, "Smith")
	s.Require().NoError(err)
	s.clock.Advance(300 * time.Millisecond)

	w, err = s.controller.SelectCandidate(s.ctx, w.ID, "12345678")
	s.Require().NoError(err)

	s.Equal(model.StepContact, w.Step)
	s.Equal(model.StepContact, w.Furthest)
	s.Equal("John Smith", w.Draft.PlayerName)
	s.Equal("CA", w.Draft.PlayerState)
	s.Equal("2026-01-02", w.Draft.MembershipExpiration)
	s.Require().NotNil(w.Draft.Rating)
	s.Equal(1500, *w.Draft.Rating)
	s.Empty(w.Search.Query)
	s.Empty(w.Search.Results)
	s.True(w.IsCollapsed(model.StepPlayer))
}

func (s *ControllerSuite) TestSelectCandidateFallsBackToLookup() {
	w := s.start()

	w, err := s.controller.SelectCandidate(s.ctx, w.ID, "11112222")
	s.Require().NoError(err)
	s.Equal("Bob Jones", w.Draft.PlayerName)
	s.Nil(w.Draft.Rating)
}

func (s *ControllerSuite) TestSelectUnknownCandidate() {
	w := s.start()

	_, err := s.controller.SelectCandidate(s.ctx, w.ID, "99999999")
	s.ErrorIs(err, model.ErrMemberNotFound)
	s.Equal(model.StepPlayer, s.get(w.ID).Step)
}

func (s *ControllerSuite) TestClearPlayerResetsDraft() {
	w := s.advanceTo(model.StepTerms)

	w, err := s.controller.ClearPlayer(s.ctx, w.ID)
	s.Require().NoError(err)
	s.Equal(model.StepPlayer, w.Step)
	s.Equal(model.StepPlayer, w.Furthest)
	s.False(w.Draft.HasPlayer())
	s.Empty(w.Draft.Email)
	s.False(w.Draft.SectionSelected)
	s.False(w.IsVisible(model.StepContact))
}

// Contact step tests

func (s *ControllerSuite) TestSubmitContactAdvances() {
	w := s.advanceTo(model.StepContact)

	w, err := s.controller.SubmitContact(s.ctx, w.ID, model.Contact{
		Email:                  "  john@example.com ",
		Phone:                  "555-0100",
		Address:                model.Address{City: "Springfield"},
		NotificationPreference: model.NotifyBoth,
	})
	s.Require().NoError(err)
	s.Equal(model.StepSection, w.Step)
	s.Equal("john@example.com", w.Draft.Email)
	s.Equal("Springfield", w.Draft.Address.City)
	s.Equal(model.NotifyBoth, w.Draft.NotificationPreference)
}

func (s *ControllerSuite) TestSubmitContactInvalidEmailKeepsFields() {
	w := s.advanceTo(model.StepContact)

	_, err := s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "not-an-email", Phone: "555-0100"})
	s.ErrorIs(err, model.ErrInvalidEmail)

	w = s.get(w.ID)
	s.Equal(model.StepContact, w.Step)
	s.Equal("not-an-email", w.Draft.Email)
	s.Equal("555-0100", w.Draft.Phone)
}

func (s *ControllerSuite) TestSubmitContactInvalidPreference() {
	w := s.advanceTo(model.StepContact)

	_, err := s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "john@example.com", NotificationPreference: "fax"})
	s.ErrorIs(err, model.ErrInvalidNotificationPreference)
}

func (s *ControllerSuite) TestStepMustBeActive() {
	w := s.start()

	_, err := s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "john@example.com"})
	s.ErrorIs(err, model.ErrStepNotActive)
	_, err = s.controller.SelectSection(s.ctx, w.ID, "sec-open")
	s.ErrorIs(err, model.ErrStepNotActive)
	_, err = s.controller.Submit(s.ctx, w.ID)
	s.ErrorIs(err, model.ErrStepNotActive)
}

// Section step tests

func (s *ControllerSuite) TestSelectSection() {
	w := s.advanceTo(model.StepSection)

	w, err := s.controller.SelectSection(s.ctx, w.ID, "sec-open")
	s.Require().NoError(err)
	s.Equal(model.StepByes, w.Step)
	s.Equal("Open Section", w.Draft.SectionName)
	s.Require().NotNil(w.Draft.SectionFee)
	s.Equal(40, *w.Draft.SectionFee)
}

func (s *ControllerSuite) TestSelectSectionOutsideBandIsAllowed() {
	w := s.advanceTo(model.StepSection)

	w, err := s.controller.SelectSection(s.ctx, w.ID, "sec-u1200")
	s.Require().NoError(err)
	s.Equal("Under 1200", w.Draft.SectionName)
}

func (s *ControllerSuite) TestSelectUnknownSection() {
	w := s.advanceTo(model.StepSection)

	_, err := s.controller.SelectSection(s.ctx, w.ID, "sec-missing")
	s.ErrorIs(err, model.ErrSectionNotFound)
}

func (s *ControllerSuite) TestSelectSyntheticOpenSection() {
	s.Require().NoError(s.storage.DeleteSectionsForEvent(s.ctx, testEvent))
	w := s.advanceTo(model.StepSection)

	w, err := s.controller.SelectSection(s.ctx, w.ID, "")
	s.Require().NoError(err)
	s.True(w.Draft.SectionSelected)
	s.Equal(model.OpenSectionName, w.Draft.DisplaySectionName())
	s.Nil(w.Draft.SectionFee)
}

// Bye step tests

func (s *ControllerSuite) TestToggleBye() {
	w := s.advanceTo(model.StepByes)

	w, err := s.controller.ToggleBye(s.ctx, w.ID, 3)
	s.Require().NoError(err)
	w, err = s.controller.ToggleBye(s.ctx, w.ID, 1)
	s.Require().NoError(err)
	s.Equal(model.ByeRounds{1, 3}, w.Draft.ByeRounds)

	w, err = s.controller.ToggleBye(s.ctx, w.ID, 3)
	s.Require().NoError(err)
	s.Equal(model.ByeRounds{1}, w.Draft.ByeRounds)
	s.Equal(model.StepByes, w.Step)
}

func (s *ControllerSuite) TestToggleByeOutOfRange() {
	w := s.advanceTo(model.StepByes)

	_, err := s.controller.ToggleBye(s.ctx, w.ID, 0)
	s.ErrorIs(err, model.ErrInvalidRound)
	_, err = s.controller.ToggleBye(s.ctx, w.ID, 6)
	s.ErrorIs(err, model.ErrInvalidRound)
}

func (s *ControllerSuite) TestContinueByesWithoutRequests() {
	w := s.advanceTo(model.StepByes)

	w, err := s.controller.ContinueByes(s.ctx, w.ID)
	s.Require().NoError(err)
	s.Equal(model.StepTerms, w.Step)
	s.True(w.StepComplete(model.StepByes))
}

// Submit tests

func (s *ControllerSuite) TestSubmitRequiresTerms() {
	w := s.advanceTo(model.StepTerms)

	_, err := s.controller.Submit(s.ctx, w.ID)
	s.ErrorIs(err, model.ErrTermsNotAccepted)
}

func (s *ControllerSuite) TestFullRegistration() {
	s.ids.Queue("01HREG")
	w := s.start()

	_, err := s.controller.Search(s.ctx, w.ID, "Smith")
	s.Require().NoError(err)
	s.clock.Advance(300 * time.Millisecond)
	_, err = s.controller.SelectCandidate(s.ctx, w.ID, "12345678")
	s.Require().NoError(err)
	_, err = s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "john@example.com"})
	s.Require().NoError(err)
	_, err = s.controller.SelectSection(s.ctx, w.ID, "sec-open")
	s.Require().NoError(err)
	_, err = s.controller.ToggleBye(s.ctx, w.ID, 3)
	s.Require().NoError(err)
	_, err = s.controller.ToggleBye(s.ctx, w.ID, 1)
	s.Require().NoError(err)
	_, err = s.controller.ContinueByes(s.ctx, w.ID)
	s.Require().NoError(err)
	_, err = s.controller.SetTermsAccepted(s.ctx, w.ID, true)
	s.Require().NoError(err)

	w, err = s.controller.Submit(s.ctx, w.ID)
	s.Require().NoError(err)
	s.True(w.IsSubmitted())
	s.False(w.Submitting)
	s.Equal(model.RegistrationID("01HREG"), w.RegistrationID)
	s.False(w.IsVisible(model.StepTerms))

	reg, err := s.storage.GetRegistration(s.ctx, "01HREG")
	s.Require().NoError(err)
	s.Equal(testEvent, reg.EventID)
	s.Equal(model.SectionID("sec-open"), reg.SectionID)
	s.Equal("12345678", reg.PlayerID)
	s.Equal("John Smith", reg.PlayerName)
	s.Require().NotNil(reg.Rating)
	s.Equal(1500, *reg.Rating)
	s.Equal("john@example.com", reg.Email)
	s.Equal(model.NotifyEmail, reg.NotificationPreference)
	s.Equal("1,3", reg.ByeRounds)
	s.True(reg.AcceptedTerms)

	s.Contains(s.notifier.types(), model.EventSubmitted)
}

func (s *ControllerSuite) TestSubmitFailureKeepsDraft() {
	w := s.advanceTo(model.StepTerms)
	_, err := s.controller.SetTermsAccepted(s.ctx, w.ID, true)
	s.Require().NoError(err)

	event, err := s.storage.GetEvent(s.ctx, testEvent)
	s.Require().NoError(err)
	event.RegistrationOpen = false
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))

	_, err = s.controller.Submit(s.ctx, w.ID)
	s.ErrorIs(err, model.ErrRegistrationClosed)

	w = s.get(w.ID)
	s.Equal(model.StepTerms, w.Step)
	s.False(w.Submitting)
	s.Equal(model.SubmitFailedMessage, w.SubmitError)
	s.Equal("John Smith", w.Draft.PlayerName)
	s.True(w.Draft.AcceptedTerms)

	event.RegistrationOpen = true
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))
	w, err = s.controller.Submit(s.ctx, w.ID)
	s.Require().NoError(err)
	s.True(w.IsSubmitted())
	s.Empty(w.SubmitError)
}

func (s *ControllerSuite) TestSubmitInProgressBlocksSecondAttempt() {
	w := s.advanceTo(model.StepTerms)
	_, err := s.controller.SetTermsAccepted(s.ctx, w.ID, true)
	s.Require().NoError(err)

	w = s.get(w.ID)
	w.Submitting = true
	w.SubmitStartedAt = s.clock.Now()
	s.Require().NoError(s.storage.SaveWizard(s.ctx, w))

	_, err = s.controller.Submit(s.ctx, w.ID)
	s.ErrorIs(err, model.ErrSubmissionInProgress)
	_, err = s.controller.Reopen(s.ctx, w.ID, model.StepContact)
	s.ErrorIs(err, model.ErrSubmissionInProgress)

	s.clock.Advance(DefaultConfig().SubmitTimeout)
	w, err = s.controller.Submit(s.ctx, w.ID)
	s.Require().NoError(err)
	s.True(w.IsSubmitted())
}

func (s *ControllerSuite) TestSubmittedSessionRejectsChanges() {
	w := s.advanceTo(model.StepTerms)
	_, err := s.controller.SetTermsAccepted(s.ctx, w.ID, true)
	s.Require().NoError(err)
	_, err = s.controller.Submit(s.ctx, w.ID)
	s.Require().NoError(err)

	_, err = s.controller.Submit(s.ctx, w.ID)
	s.ErrorIs(err, model.ErrAlreadySubmitted)
	_, err = s.controller.ClearPlayer(s.ctx, w.ID)
	s.ErrorIs(err, model.ErrAlreadySubmitted)
	_, err = s.controller.Reopen(s.ctx, w.ID, model.StepContact)
	s.ErrorIs(err, model.ErrAlreadySubmitted)
	_, err = s.controller.Search(s.ctx, w.ID, "Smith")
	s.ErrorIs(err, model.ErrAlreadySubmitted)
}

// Reopen tests

func (s *ControllerSuite) TestReopenKeepsLaterSteps() {
	w := s.advanceTo(model.StepTerms)

	w, err := s.controller.Reopen(s.ctx, w.ID, model.StepContact)
	s.Require().NoError(err)
	s.Equal(model.StepContact, w.Step)
	s.Equal(model.StepTerms, w.Furthest)
	s.True(w.Draft.SectionSelected)
	s.True(w.IsCollapsed(model.StepTerms))

	w, err = s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "new@example.com"})
	s.Require().NoError(err)
	s.Equal(model.StepSection, w.Step)
	s.Equal(model.StepTerms, w.Furthest)
	s.Equal("Open Section", w.Draft.SectionName)
}

func (s *ControllerSuite) TestReopenLaterCollapsedStep() {
	w := s.advanceTo(model.StepTerms)
	_, err := s.controller.Reopen(s.ctx, w.ID, model.StepContact)
	s.Require().NoError(err)

	w, err = s.controller.Reopen(s.ctx, w.ID, model.StepTerms)
	s.Require().NoError(err)
	s.Equal(model.StepTerms, w.Step)
}

func (s *ControllerSuite) TestReopenUnreachedStepIsLocked() {
	w := s.advanceTo(model.StepContact)

	_, err := s.controller.Reopen(s.ctx, w.ID, model.StepSection)
	s.ErrorIs(err, model.ErrStepLocked)
	_, err = s.controller.Reopen(s.ctx, w.ID, model.StepSubmitted)
	s.ErrorIs(err, model.ErrStepLocked)
}

func (s *ControllerSuite) TestReopenLockedWhenEarlierStepIncomplete() {
	w := s.advanceTo(model.StepTerms)
	_, err := s.controller.Reopen(s.ctx, w.ID, model.StepContact)
	s.Require().NoError(err)
	_, err = s.controller.SubmitContact(s.ctx, w.ID, model.Contact{Email: "broken"})
	s.Require().ErrorIs(err, model.ErrInvalidEmail)

	_, err = s.controller.Reopen(s.ctx, w.ID, model.StepTerms)
	s.ErrorIs(err, model.ErrStepLocked)
}

func (s *ControllerSuite) TestReopenActiveStepIsNoop() {
	w := s.advanceTo(model.StepSection)

	w, err := s.controller.Reopen(s.ctx, w.ID, model.StepSection)
	s.Require().NoError(err)
	s.Equal(model.StepSection, w.Step)
}

func (s *ControllerSuite) TestReopenPlayerStepResets() {
	w := s.advanceTo(model.StepByes)

	w, err := s.controller.Reopen(s.ctx, w.ID, model.StepPlayer)
	s.Require().NoError(err)
	s.Equal(model.StepPlayer, w.Step)
	s.Equal(model.StepPlayer, w.Furthest)
	s.False(w.Draft.HasPlayer())
	s.False(w.Draft.SectionSelected)
}

func (s *ControllerSuite) TestStepChangesAreNotified() {
	w := s.advanceTo(model.StepSection)
	_, err := s.controller.Reopen(s.ctx, w.ID, model.StepPlayer)
	s.Require().NoError(err)

	s.Equal([]model.WizardEventType{
		model.EventStepChanged,
		model.EventStepChanged,
		model.EventStepChanged,
	}, s.notifier.types())
}

func (s *ControllerSuite) TestPurgeIdleSessions() {
	idle := s.start()
	s.clock.Advance(23 * time.Hour)
	active := s.start()

	s.clock.Advance(2 * time.Hour)
	deleted, err := s.controller.PurgeIdleSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, err = s.controller.Get(s.ctx, idle.ID)
	s.ErrorIs(err, model.ErrWizardNotFound)
	s.Equal(model.StepPlayer, s.get(active.ID).Step)
}

func (s *ControllerSuite) TestPurgeKeepsSessionsWithRecentChanges() {
	w := s.start()
	s.clock.Advance(23 * time.Hour)
	_, err := s.controller.SelectCandidate(s.ctx, w.ID, "12345678")
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)
	deleted, err := s.controller.PurgeIdleSessions(s.ctx)
	s.Require().NoError(err)
	s.Zero(deleted)
	s.Equal(model.StepContact, s.get(w.ID).Step)
}

func (s *ControllerSuite) TestUnknownSession() {
	_, err := s.controller.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrWizardNotFound)
	_, err = s.controller.Search(s.ctx, "missing", "Smith")
	s.ErrorIs(err, model.ErrWizardNotFound)
}
