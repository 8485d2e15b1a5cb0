package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	events        map[model.EventID]*model.Event
	sections      map[model.EventID]map[model.SectionID]*model.Section
	wizards       map[model.SessionID]*model.Wizard
	registrations map[model.RegistrationID]*model.Registration
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		events:        make(map[model.EventID]*model.Event),
		sections:      make(map[model.EventID]map[model.SectionID]*model.Section),
		wizards:       make(map[model.SessionID]*model.Wizard),
		registrations: make(map[model.RegistrationID]*model.Registration),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *event
	s.events[event.ID] = &e
	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	e := *event
	return &e, nil
}

func (s *Storage) ListEvents(ctx context.Context) ([]*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]*model.Event, 0, len(s.events))
	for _, event := range s.events {
		e := *event
		events = append(events, &e)
	}
	storage.SortEvents(events)
	return events, nil
}

// Section operations

func (s *Storage) SaveSection(ctx context.Context, section *model.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	forEvent, ok := s.sections[section.EventID]
	if !ok {
		forEvent = make(map[model.SectionID]*model.Section)
		s.sections[section.EventID] = forEvent
	}
	sec := *section
	forEvent[section.ID] = &sec
	return nil
}

func (s *Storage) GetSectionsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sections := make([]*model.Section, 0, len(s.sections[eventID]))
	for _, section := range s.sections[eventID] {
		sec := *section
		sections = append(sections, &sec)
	}
	storage.SortSections(sections)
	return sections, nil
}

func (s *Storage) DeleteSectionsForEvent(ctx context.Context, eventID model.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sections, eventID)
	return nil
}

// Wizard session operations

func (s *Storage) SaveWizard(ctx context.Context, wizard *model.Wizard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizards[wizard.ID] = cloneWizard(wizard)
	return nil
}

func (s *Storage) GetWizard(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wizard, ok := s.wizards[id]
	if !ok {
		return nil, model.ErrWizardNotFound
	}
	return cloneWizard(wizard), nil
}

func (s *Storage) DeleteWizard(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, id)
	return nil
}

func (s *Storage) DeleteIdleWizards(ctx context.Context, idleSince time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, wizard := range s.wizards {
		if wizard.UpdatedAt.Before(idleSince) {
			delete(s.wizards, id)
			deleted++
		}
	}
	return deleted, nil
}

// Registration operations

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *reg
	s.registrations[reg.ID] = &r
	return nil
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, model.ErrRegistrationNotFound
	}
	r := *reg
	return &r, nil
}

func (s *Storage) GetRegistrationsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var regs []*model.Registration
	for _, reg := range s.registrations {
		if reg.EventID == eventID {
			r := *reg
			regs = append(regs, &r)
		}
	}
	storage.SortRegistrationsNewestFirst(regs)
	return regs, nil
}

func cloneWizard(w *model.Wizard) *model.Wizard {
	c := *w
	c.Draft.ByeRounds = slices.Clone(w.Draft.ByeRounds)
	c.Search.Results = slices.Clone(w.Search.Results)
	return &c
}
