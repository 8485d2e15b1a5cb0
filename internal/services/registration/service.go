// Package registration persists completed tournament registrations.
package registration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/chessclub/internal/dependencies/clock"
	"github.com/mcoot/chessclub/internal/dependencies/ids"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage"
)

var tracer = otel.Tracer("github.com/mcoot/chessclub/internal/services/registration")

// Service validates and stores registrations
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// New creates a new registration Service
func New(storage storage.Storage, clk clock.Clock, idgen ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		ids:     idgen,
		logger:  logger,
	}
}

// Submit validates and persists a registration. The record must name a player
// and a valid email, accept the terms, and belong to an event that is open for
// registration; a section, when given, must belong to that event.
func (s *Service) Submit(ctx context.Context, reg model.Registration) (*model.Confirmation, error) {
	ctx, span := tracer.Start(ctx, "registration.Submit", trace.WithAttributes(
		attribute.String("registration.event_id", string(reg.EventID)),
		attribute.String("registration.player_id", reg.PlayerID),
	))
	defer span.End()

	conf, err := s.submit(ctx, reg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("registration.id", string(conf.RegistrationID)))
	return conf, nil
}

func (s *Service) submit(ctx context.Context, reg model.Registration) (*model.Confirmation, error) {
	if err := validate(&reg); err != nil {
		return nil, err
	}

	event, err := s.storage.GetEvent(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if status := event.RegistrationStatusAt(s.clock.Now()); status != model.RegistrationStatusOpen {
		return nil, fmt.Errorf("%w: %s", model.ErrRegistrationClosed, status)
	}

	if reg.SectionID != "" {
		if err := s.checkSection(ctx, reg.EventID, reg.SectionID); err != nil {
			return nil, err
		}
	}

	byes, err := model.ParseByeRounds(reg.ByeRounds)
	if err != nil {
		return nil, err
	}
	for _, round := range byes {
		if round > event.Rounds() {
			return nil, fmt.Errorf("%w: round %d of %d", model.ErrInvalidRound, round, event.Rounds())
		}
	}
	// Normalized so stored values are always ascending with no duplicates
	reg.ByeRounds, _ = byes.Serialize()

	reg.ID = model.RegistrationID(s.ids.New())
	reg.RegisteredAt = s.clock.Now()

	if err := s.storage.SaveRegistration(ctx, &reg); err != nil {
		return nil, err
	}

	s.logger.Info("registration submitted",
		slog.String("registration_id", string(reg.ID)),
		slog.String("event_id", string(reg.EventID)),
		slog.String("section_id", string(reg.SectionID)),
		slog.String("player_id", reg.PlayerID),
	)

	return &model.Confirmation{
		RegistrationID: reg.ID,
		RegisteredAt:   reg.RegisteredAt,
	}, nil
}

// ListForEvent returns an event's registrations, newest first
func (s *Service) ListForEvent(ctx context.Context, eventID model.EventID) ([]*model.Registration, error) {
	if _, err := s.storage.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.storage.GetRegistrationsForEvent(ctx, eventID)
}

func (s *Service) checkSection(ctx context.Context, eventID model.EventID, sectionID model.SectionID) error {
	sections, err := s.storage.GetSectionsForEvent(ctx, eventID)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		if sec.ID == sectionID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", model.ErrSectionNotFound, sectionID)
}

func validate(reg *model.Registration) error {
	if strings.TrimSpace(reg.PlayerID) == "" {
		return fmt.Errorf("%w: player id is required", model.ErrInvalidRegistration)
	}
	if strings.TrimSpace(reg.PlayerName) == "" {
		return fmt.Errorf("%w: player name is required", model.ErrInvalidRegistration)
	}
	if !model.IsValidEmail(reg.Email) {
		return fmt.Errorf("%w: %w", model.ErrInvalidRegistration, model.ErrInvalidEmail)
	}
	if !reg.AcceptedTerms {
		return model.ErrTermsNotAccepted
	}
	if reg.NotificationPreference != "" {
		if _, err := model.ParseNotificationPreference(string(reg.NotificationPreference)); err != nil {
			return fmt.Errorf("%w: %w", model.ErrInvalidRegistration, err)
		}
	}
	return nil
}
