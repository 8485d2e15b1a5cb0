// Package wizard runs the step-by-step tournament registration flow.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/chessclub/internal/dependencies/clock"
	"github.com/mcoot/chessclub/internal/dependencies/random"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/ratings"
	"github.com/mcoot/chessclub/internal/services/search"
	"github.com/mcoot/chessclub/internal/storage"
)

const (
	// SessionIDLength is the length of generated session IDs
	SessionIDLength = 32
	// SessionIDAlphabet is the characters used in session IDs
	SessionIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Submitter persists a completed registration
type Submitter interface {
	Submit(ctx context.Context, reg model.Registration) (*model.Confirmation, error)
}

// Notifier receives wizard events, typically to push them to a browser
type Notifier interface {
	NotifyWizard(ctx context.Context, event model.WizardEvent, wizard *model.Wizard)
}

// Config holds controller settings
type Config struct {
	// SubmitTimeout is how long a submission may stay in progress before
	// another attempt is allowed
	SubmitTimeout time.Duration
	// IdleTimeout is how long an unsubmitted session is kept without changes
	IdleTimeout time.Duration
}

// DefaultConfig returns the default controller settings
func DefaultConfig() Config {
	return Config{
		SubmitTimeout: 30 * time.Second,
		IdleTimeout:   24 * time.Hour,
	}
}

// Controller manages the wizard state machine for registration sessions
type Controller struct {
	storage   storage.Storage
	events    *events.Service
	directory ratings.Directory
	searches  *search.Debouncer
	submitter Submitter
	clock     clock.Clock
	random    random.Random
	cfg       Config
	logger    *slog.Logger

	locks *sessionLocks

	mu       sync.RWMutex
	notifier Notifier
}

// NewController creates a new wizard Controller and subscribes it to the
// debouncer's settled searches
func NewController(
	storage storage.Storage,
	eventService *events.Service,
	directory ratings.Directory,
	searches *search.Debouncer,
	submitter Submitter,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		storage:   storage,
		events:    eventService,
		directory: directory,
		searches:  searches,
		submitter: submitter,
		clock:     clock,
		random:    random,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "wizard")),
		locks:     newSessionLocks(),
	}
	searches.OnResult(c.applySearchResult)
	return c
}

// SetNotifier sets the receiver of wizard events
func (c *Controller) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Start begins a new registration session for an event that is open for registration
func (c *Controller) Start(ctx context.Context, eventID model.EventID) (*model.Wizard, error) {
	if _, err := c.events.CheckRegistrationOpen(ctx, eventID); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	// Generate unique session ID
	var id model.SessionID
	for {
		id = model.SessionID(c.random.String(SessionIDLength, SessionIDAlphabet))
		_, err := c.storage.GetWizard(ctx, id)
		if errors.Is(err, model.ErrWizardNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	w := &model.Wizard{
		ID:        id,
		EventID:   eventID,
		Step:      model.StepPlayer,
		Furthest:  model.StepPlayer,
		Draft:     model.NewDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SaveWizard(ctx, w); err != nil {
		return nil, err
	}

	c.logger.Info("registration session started",
		slog.String("session_id", string(id)),
		slog.String("event_id", string(eventID)),
	)
	return w, nil
}

// Get returns a session
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	return c.storage.GetWizard(ctx, id)
}

// Search records the latest query typed into the player search and schedules
// a debounced directory search. Short queries clear the results immediately.
func (c *Controller) Search(ctx context.Context, id model.SessionID, query string) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepPlayer)
	if err != nil {
		return nil, err
	}

	ticket := c.searches.Schedule(string(id), query)
	w.Search.Query = query
	w.Search.Seq = ticket.Seq
	w.Search.Searching = ticket.Searching
	if !ticket.Searching {
		w.Search.Results = nil
	}

	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// applySearchResult stores a settled search if it is still the session's latest
func (c *Controller) applySearchResult(res search.Result) {
	ctx := context.Background()
	id := model.SessionID(res.Key)

	unlock := c.locks.lock(id)
	w, err := c.storage.GetWizard(ctx, id)
	if err != nil {
		unlock()
		c.logger.Warn("dropping search result for missing session",
			slog.String("session_id", res.Key),
			slog.String("error", err.Error()),
		)
		return
	}
	if w.Search.Seq != res.Seq || !w.IsActive(model.StepPlayer) {
		unlock()
		return
	}

	w.Search.Results = res.Candidates
	w.Search.Searching = false
	err = c.save(ctx, w)
	unlock()
	if err != nil {
		c.logger.Error("failed to save search result",
			slog.String("session_id", res.Key),
			slog.String("error", err.Error()),
		)
		return
	}

	c.notify(ctx, w, model.EventSearchUpdated, model.SearchUpdatedPayload{Search: w.Search})
}

// SelectCandidate picks a member as the registering player. The member is
// taken from the current results, or looked up directly if not among them.
func (c *Controller) SelectCandidate(ctx context.Context, id model.SessionID, memberID string) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepPlayer)
	if err != nil {
		return nil, err
	}

	candidate := w.Search.FindResult(memberID)
	if candidate == nil {
		candidate, err = c.directory.Lookup(ctx, memberID)
		if err != nil {
			return nil, err
		}
	}

	w.Draft.SetPlayer(candidate)
	w.Search = model.SearchState{Seq: w.Search.Seq}
	c.searches.Forget(string(id))

	from := w.Step
	w.Advance(model.StepContact)
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.notifyStep(ctx, w, from)
	return w, nil
}

// ClearPlayer discards the selected player and everything entered after it
func (c *Controller) ClearPlayer(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.IsSubmitted() {
		return nil, model.ErrAlreadySubmitted
	}
	if c.submitInFlight(w) {
		return nil, model.ErrSubmissionInProgress
	}

	from := w.Step
	w.Reset()
	c.searches.Forget(string(id))
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.notifyStep(ctx, w, from)
	return w, nil
}

// SubmitContact stores the contact step. The fields are kept even when the
// email is invalid so the form can be shown again as entered.
func (c *Controller) SubmitContact(ctx context.Context, id model.SessionID, contact model.Contact) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepContact)
	if err != nil {
		return nil, err
	}

	pref, err := model.ParseNotificationPreference(string(contact.NotificationPreference))
	if err != nil {
		return nil, err
	}
	contact.NotificationPreference = pref
	w.Draft.SetContact(contact)

	if !model.IsValidEmail(w.Draft.Email) {
		if err := c.save(ctx, w); err != nil {
			return nil, err
		}
		return nil, model.ErrInvalidEmail
	}

	from := w.Step
	w.Advance(model.StepSection)
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.notifyStep(ctx, w, from)
	return w, nil
}

// SelectSection records the chosen section. Rating eligibility is advisory
// and never blocks the choice.
func (c *Controller) SelectSection(ctx context.Context, id model.SessionID, sectionID model.SectionID) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepSection)
	if err != nil {
		return nil, err
	}

	details, err := c.events.Load(ctx, w.EventID)
	if err != nil {
		return nil, err
	}
	section, err := details.FindSection(sectionID)
	if err != nil {
		return nil, err
	}
	w.Draft.SetSection(section)

	from := w.Step
	w.Advance(model.StepByes)
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.notifyStep(ctx, w, from)
	return w, nil
}

// ToggleBye adds or removes a half-point bye request for a round
func (c *Controller) ToggleBye(ctx context.Context, id model.SessionID, round int) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepByes)
	if err != nil {
		return nil, err
	}

	event, err := c.events.GetEvent(ctx, w.EventID)
	if err != nil {
		return nil, err
	}
	if round < 1 || round > event.Rounds() {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidRound, round)
	}

	w.Draft.ByeRounds = w.Draft.ByeRounds.Toggle(round)
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ContinueByes completes the bye step, with or without requests
func (c *Controller) ContinueByes(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepByes)
	if err != nil {
		return nil, err
	}

	from := w.Step
	w.Advance(model.StepTerms)
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.notifyStep(ctx, w, from)
	return w, nil
}

// SetTermsAccepted records whether the terms checkbox is ticked
func (c *Controller) SetTermsAccepted(ctx context.Context, id model.SessionID, accepted bool) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.loadActive(ctx, id, model.StepTerms)
	if err != nil {
		return nil, err
	}

	w.Draft.AcceptedTerms = accepted
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Submit persists the registration. Only one submission per session runs at
// a time. On failure the draft is kept and the session carries a generic
// error message so the registrant can retry.
func (c *Controller) Submit(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	reg, err := c.beginSubmit(ctx, id)
	if err != nil {
		return nil, err
	}

	conf, submitErr := c.submitter.Submit(ctx, *reg)

	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Submitting = false
	w.SubmitStartedAt = time.Time{}

	if submitErr != nil {
		c.logger.Warn("registration submission failed",
			slog.String("session_id", string(id)),
			slog.String("event_id", string(w.EventID)),
			slog.String("error", submitErr.Error()),
		)
		w.SubmitError = model.SubmitFailedMessage
		if err := c.save(ctx, w); err != nil {
			return nil, err
		}
		return nil, submitErr
	}

	from := w.Step
	w.RegistrationID = conf.RegistrationID
	w.SubmitError = ""
	w.Advance(model.StepSubmitted)
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.searches.Forget(string(id))

	c.logger.Info("registration session submitted",
		slog.String("session_id", string(id)),
		slog.String("registration_id", string(conf.RegistrationID)),
	)
	c.notifyStep(ctx, w, from)
	c.notify(ctx, w, model.EventSubmitted, model.SubmittedPayload{RegistrationID: conf.RegistrationID})
	return w, nil
}

// beginSubmit validates the session and marks it as submitting
func (c *Controller) beginSubmit(ctx context.Context, id model.SessionID) (*model.Registration, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.IsSubmitted() {
		return nil, model.ErrAlreadySubmitted
	}
	if !w.IsActive(model.StepTerms) {
		return nil, model.ErrStepNotActive
	}
	if !w.Draft.AcceptedTerms {
		return nil, model.ErrTermsNotAccepted
	}
	if c.submitInFlight(w) {
		return nil, model.ErrSubmissionInProgress
	}

	w.Submitting = true
	w.SubmitStartedAt = c.clock.Now()
	w.SubmitError = ""
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}

	reg := model.NewRegistration(w.EventID, &w.Draft)
	return &reg, nil
}

// Reopen makes a collapsed step active again. Reopening the player step
// clears the player and resets the session; other steps keep later data.
func (c *Controller) Reopen(ctx context.Context, id model.SessionID, step model.Step) (*model.Wizard, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	w, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.IsSubmitted() {
		return nil, model.ErrAlreadySubmitted
	}
	if c.submitInFlight(w) {
		return nil, model.ErrSubmissionInProgress
	}
	if w.IsActive(step) {
		return w, nil
	}
	if !w.CanReopen(step) {
		return nil, fmt.Errorf("%w: %d", model.ErrStepLocked, step)
	}

	from := w.Step
	if step == model.StepPlayer {
		w.Reset()
		c.searches.Forget(string(id))
	} else {
		w.Step = step
	}
	if err := c.save(ctx, w); err != nil {
		return nil, err
	}
	c.notifyStep(ctx, w, from)
	return w, nil
}

// submitInFlight returns true while a submission is running. A submission
// older than the timeout is treated as abandoned.
func (c *Controller) submitInFlight(w *model.Wizard) bool {
	return w.Submitting && c.clock.Now().Sub(w.SubmitStartedAt) < c.cfg.SubmitTimeout
}

// PurgeIdleSessions discards sessions that have not changed within the idle
// timeout, taking their drafts with them
func (c *Controller) PurgeIdleSessions(ctx context.Context) (int, error) {
	if c.cfg.IdleTimeout <= 0 {
		return 0, nil
	}
	deleted, err := c.storage.DeleteIdleWizards(ctx, c.clock.Now().Add(-c.cfg.IdleTimeout))
	if err != nil {
		return deleted, fmt.Errorf("failed to purge idle sessions: %w", err)
	}
	if deleted > 0 {
		c.logger.Info("idle registration sessions purged", slog.Int("count", deleted))
	}
	return deleted, nil
}

func (c *Controller) load(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	return c.storage.GetWizard(ctx, id)
}

// loadActive fetches a session whose active step is the given one
func (c *Controller) loadActive(ctx context.Context, id model.SessionID, step model.Step) (*model.Wizard, error) {
	w, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.IsSubmitted() {
		return nil, model.ErrAlreadySubmitted
	}
	if c.submitInFlight(w) {
		return nil, model.ErrSubmissionInProgress
	}
	if !w.IsActive(step) {
		return nil, fmt.Errorf("%w: %s", model.ErrStepNotActive, step.Title())
	}
	return w, nil
}

func (c *Controller) save(ctx context.Context, w *model.Wizard) error {
	w.UpdatedAt = c.clock.Now()
	return c.storage.SaveWizard(ctx, w)
}

func (c *Controller) notifyStep(ctx context.Context, w *model.Wizard, from model.Step) {
	if from == w.Step {
		return
	}
	c.notify(ctx, w, model.EventStepChanged, model.StepChangedPayload{From: from, To: w.Step})
}

func (c *Controller) notify(ctx context.Context, w *model.Wizard, typ model.WizardEventType, payload any) {
	c.mu.RLock()
	n := c.notifier
	c.mu.RUnlock()
	if n == nil {
		return
	}
	n.NotifyWizard(ctx, model.WizardEvent{
		Type:      typ,
		Timestamp: c.clock.Now(),
		SessionID: w.ID,
		EventID:   w.EventID,
		Payload:   payload,
	}, w)
}

// ControllerInterface defines the interface for wizard operations
type ControllerInterface interface {
	Start(ctx context.Context, eventID model.EventID) (*model.Wizard, error)
	Get(ctx context.Context, id model.SessionID) (*model.Wizard, error)
	Search(ctx context.Context, id model.SessionID, query string) (*model.Wizard, error)
	SelectCandidate(ctx context.Context, id model.SessionID, memberID string) (*model.Wizard, error)
	ClearPlayer(ctx context.Context, id model.SessionID) (*model.Wizard, error)
	SubmitContact(ctx context.Context, id model.SessionID, contact model.Contact) (*model.Wizard, error)
	SelectSection(ctx context.Context, id model.SessionID, sectionID model.SectionID) (*model.Wizard, error)
	ToggleBye(ctx context.Context, id model.SessionID, round int) (*model.Wizard, error)
	ContinueByes(ctx context.Context, id model.SessionID) (*model.Wizard, error)
	SetTermsAccepted(ctx context.Context, id model.SessionID, accepted bool) (*model.Wizard, error)
	Submit(ctx context.Context, id model.SessionID) (*model.Wizard, error)
	Reopen(ctx context.Context, id model.SessionID, step model.Step) (*model.Wizard, error)
}

// Ensure Controller implements ControllerInterface
var _ ControllerInterface = (*Controller)(nil)
