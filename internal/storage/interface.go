package storage

import (
	"context"
	"time"

	"github.com/mcoot/chessclub/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Event operations
	SaveEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id model.EventID) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error) // Ordered by event date

	// Section operations
	SaveSection(ctx context.Context, section *model.Section) error
	GetSectionsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Section, error) // Ordered by sort order
	DeleteSectionsForEvent(ctx context.Context, eventID model.EventID) error

	// Wizard session operations
	SaveWizard(ctx context.Context, wizard *model.Wizard) error
	GetWizard(ctx context.Context, id model.SessionID) (*model.Wizard, error)
	DeleteWizard(ctx context.Context, id model.SessionID) error
	DeleteIdleWizards(ctx context.Context, idleSince time.Time) (int, error) // Removes sessions last updated before idleSince

	// Registration operations
	SaveRegistration(ctx context.Context, reg *model.Registration) error
	GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error)
	GetRegistrationsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Registration, error) // Newest first
}
