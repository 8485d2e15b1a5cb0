// Package events serves tournament events and their sections.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/chessclub/internal/dependencies/clock"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage"
)

// Service provides read access to events and sections
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new events Service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger,
	}
}

// Details is an event with the section options a registrant can choose from
type Details struct {
	Event    *model.Event
	Sections []model.Section // Configured sections, or the synthetic Open section
	Status   model.RegistrationStatus
}

// HasConfiguredSections returns true if the options are real sections
func (d *Details) HasConfiguredSections() bool {
	return len(d.Sections) > 0 && !d.Sections[0].IsOpen()
}

// FindSection returns the option with the given ID
func (d *Details) FindSection(id model.SectionID) (*model.Section, error) {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i], nil
		}
	}
	return nil, model.ErrSectionNotFound
}

// GetEvent returns an event
func (s *Service) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	return s.storage.GetEvent(ctx, id)
}

// ListUpcoming returns active events that have not yet happened, soonest first
func (s *Service) ListUpcoming(ctx context.Context) ([]*model.Event, error) {
	all, err := s.storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	upcoming := []*model.Event{}
	for _, e := range all {
		if e.IsActive && !e.EventDate.Before(now) {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming, nil
}

// ListSections returns an event's configured sections in sort order
func (s *Service) ListSections(ctx context.Context, eventID model.EventID) ([]model.Section, error) {
	stored, err := s.storage.GetSectionsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(stored) > model.MaxSectionsPerEvent {
		stored = stored[:model.MaxSectionsPerEvent]
	}
	sections := make([]model.Section, 0, len(stored))
	for _, sec := range stored {
		sections = append(sections, *sec)
	}
	return sections, nil
}

// RegistrationStatus reports whether the event accepts registrations right now
func (s *Service) RegistrationStatus(event *model.Event) model.RegistrationStatus {
	return event.RegistrationStatusAt(s.clock.Now())
}

// Load fetches an event and its sections concurrently. A failure to load
// sections is logged and the event is offered with the Open section only.
func (s *Service) Load(ctx context.Context, id model.EventID) (*Details, error) {
	var (
		event    *model.Event
		sections []model.Section
		secErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = s.storage.GetEvent(gctx, id)
		return err
	})
	g.Go(func() error {
		sections, secErr = s.ListSections(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if secErr != nil {
		s.logger.Warn("failed to load sections, offering open section only",
			slog.String("event_id", string(id)),
			slog.String("error", secErr.Error()),
		)
		sections = nil
	}
	if len(sections) == 0 {
		sections = []model.Section{model.OpenSection(id)}
	}

	return &Details{
		Event:    event,
		Sections: sections,
		Status:   s.RegistrationStatus(event),
	}, nil
}

// CheckRegistrationOpen loads the event and fails with ErrRegistrationClosed
// when it is closed or in the past
func (s *Service) CheckRegistrationOpen(ctx context.Context, id model.EventID) (*Details, error) {
	details, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if details.Status != model.RegistrationStatusOpen {
		return details, fmt.Errorf("%w: %s", model.ErrRegistrationClosed, details.Status)
	}
	return details, nil
}

// IsClosed returns true if the error reports closed registration
func IsClosed(err error) bool {
	return errors.Is(err, model.ErrRegistrationClosed)
}
