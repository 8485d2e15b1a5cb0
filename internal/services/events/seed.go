package events

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/chessclub/internal/model"
)

type seedFile struct {
	Events []seedEvent `yaml:"events"`
}

type seedEvent struct {
	ID               string        `yaml:"id"`
	Title            string        `yaml:"title"`
	Description      string        `yaml:"description"`
	Date             time.Time     `yaml:"date"`
	Location         string        `yaml:"location"`
	EntryFee         string        `yaml:"entryFee"`
	TimeControl      string        `yaml:"timeControl"`
	Active           *bool         `yaml:"active"`
	Rounds           int           `yaml:"rounds"`
	RegistrationOpen *bool         `yaml:"registrationOpen"`
	Terms            string        `yaml:"terms"`
	Sections         []seedSection `yaml:"sections"`
}

type seedSection struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	EntryFee  *int   `yaml:"entryFee"`
	MinRating *int   `yaml:"minRating"`
	MaxRating *int   `yaml:"maxRating"`
	SortOrder int    `yaml:"sortOrder"`
}

// LoadSeedFile loads events and sections from a YAML file into storage
func (s *Service) LoadSeedFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.LoadSeed(ctx, file)
}

// LoadSeed loads events and sections from YAML. Existing events with the same
// IDs are replaced along with their sections.
func (s *Service) LoadSeed(ctx context.Context, r io.Reader) error {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && err != io.EOF {
		return fmt.Errorf("parsing seed: %w", err)
	}

	now := s.clock.Now()
	for i, se := range seed.Events {
		event, sections, err := se.toModel(now)
		if err != nil {
			return fmt.Errorf("seed event %d: %w", i, err)
		}
		if err := s.storage.SaveEvent(ctx, event); err != nil {
			return err
		}
		if err := s.storage.DeleteSectionsForEvent(ctx, event.ID); err != nil {
			return err
		}
		for j := range sections {
			if err := s.storage.SaveSection(ctx, &sections[j]); err != nil {
				return err
			}
		}
		s.logger.Info("seeded event",
			slog.String("event_id", string(event.ID)),
			slog.Int("sections", len(sections)),
		)
	}
	return nil
}

func (se seedEvent) toModel(now time.Time) (*model.Event, []model.Section, error) {
	if se.ID == "" || se.Title == "" {
		return nil, nil, fmt.Errorf("id and title are required")
	}
	if se.Rounds < 0 {
		return nil, nil, fmt.Errorf("%s: rounds must not be negative", se.ID)
	}

	event := &model.Event{
		ID:               model.EventID(se.ID),
		Title:            se.Title,
		Description:      se.Description,
		EventDate:        se.Date,
		Location:         se.Location,
		EntryFee:         se.EntryFee,
		TimeControl:      se.TimeControl,
		IsActive:         se.Active == nil || *se.Active,
		RoundCount:       se.Rounds,
		RegistrationOpen: se.RegistrationOpen == nil || *se.RegistrationOpen,
		Terms:            se.Terms,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	seen := make(map[string]bool, len(se.Sections))
	sections := make([]model.Section, 0, len(se.Sections))
	for _, ss := range se.Sections {
		if ss.ID == "" || ss.Name == "" {
			return nil, nil, fmt.Errorf("%s: section id and name are required", se.ID)
		}
		if seen[ss.ID] {
			return nil, nil, fmt.Errorf("%s: duplicate section %q", se.ID, ss.ID)
		}
		if ss.MinRating != nil && ss.MaxRating != nil && *ss.MinRating >= *ss.MaxRating {
			return nil, nil, fmt.Errorf("%s: section %q has an empty rating band", se.ID, ss.ID)
		}
		seen[ss.ID] = true
		sections = append(sections, model.Section{
			ID:        model.SectionID(ss.ID),
			EventID:   event.ID,
			Name:      ss.Name,
			EntryFee:  ss.EntryFee,
			MinRating: ss.MinRating,
			MaxRating: ss.MaxRating,
			SortOrder: ss.SortOrder,
			CreatedAt: now,
		})
	}
	return event, sections, nil
}
