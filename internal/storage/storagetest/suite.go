// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage"
)

// Suite exercises a storage.Storage implementation. Backends embed it and set
// Storage in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int {
	return &n
}

func (s *Suite) event(id string, daysOut int) *model.Event {
	return &model.Event{
		ID:               model.EventID(id),
		Title:            "Tournament " + id,
		EventDate:        baseTime.AddDate(0, 0, daysOut),
		EntryFee:         "$40",
		IsActive:         true,
		RegistrationOpen: true,
		RoundCount:       4,
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
}

// Event tests

func (s *Suite) TestSaveAndGetEvent() {
	event := s.event("spring-open", 10)
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, event))

	retrieved, err := s.Storage.GetEvent(s.Ctx, "spring-open")
	s.Require().NoError(err)
	s.Equal(event.Title, retrieved.Title)
	s.Equal(4, retrieved.RoundCount)
	s.True(retrieved.RegistrationOpen)
	s.True(event.EventDate.Equal(retrieved.EventDate))
}

func (s *Suite) TestGetEventNotFound() {
	_, err := s.Storage.GetEvent(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrEventNotFound)
}

func (s *Suite) TestSaveEventOverwrites() {
	event := s.event("spring-open", 10)
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, event))

	event.RegistrationOpen = false
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, event))

	retrieved, err := s.Storage.GetEvent(s.Ctx, "spring-open")
	s.Require().NoError(err)
	s.False(retrieved.RegistrationOpen)
}

func (s *Suite) TestListEventsOrderedByDate() {
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("later", 30)))
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("sooner", 3)))

	events, err := s.Storage.ListEvents(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(model.EventID("sooner"), events[0].ID)
	s.Equal(model.EventID("later"), events[1].ID)
}

// Section tests

func (s *Suite) TestSectionsOrderedBySortOrder() {
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("spring-open", 10)))
	s.Require().NoError(s.Storage.SaveSection(s.Ctx, &model.Section{
		ID: "u1200", EventID: "spring-open", Name: "Under 1200", MaxRating: intPtr(1200), SortOrder: 2,
	}))
	s.Require().NoError(s.Storage.SaveSection(s.Ctx, &model.Section{
		ID: "open", EventID: "spring-open", Name: "Open Section", EntryFee: intPtr(40), SortOrder: 1,
	}))

	sections, err := s.Storage.GetSectionsForEvent(s.Ctx, "spring-open")
	s.Require().NoError(err)
	s.Require().Len(sections, 2)
	s.Equal(model.SectionID("open"), sections[0].ID)
	s.Equal(40, *sections[0].EntryFee)
	s.Nil(sections[0].MinRating)
	s.Equal(model.SectionID("u1200"), sections[1].ID)
	s.Equal(1200, *sections[1].MaxRating)
}

func (s *Suite) TestSectionsForUnknownEventIsEmpty() {
	sections, err := s.Storage.GetSectionsForEvent(s.Ctx, "missing")
	s.Require().NoError(err)
	s.Empty(sections)
}

func (s *Suite) TestDeleteSectionsForEvent() {
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("spring-open", 10)))
	s.Require().NoError(s.Storage.SaveSection(s.Ctx, &model.Section{ID: "open", EventID: "spring-open", Name: "Open"}))

	s.Require().NoError(s.Storage.DeleteSectionsForEvent(s.Ctx, "spring-open"))

	sections, err := s.Storage.GetSectionsForEvent(s.Ctx, "spring-open")
	s.Require().NoError(err)
	s.Empty(sections)
}

// Wizard tests

func (s *Suite) TestSaveAndGetWizard() {
	w := &model.Wizard{
		ID:       "sess-1",
		EventID:  "spring-open",
		Step:     model.StepByes,
		Furthest: model.StepByes,
		Draft:    model.NewDraft(),
		Search: model.SearchState{
			Seq:     3,
			Results: []model.CandidateProfile{{ID: "12345678", FirstName: "John", LastName: "Smith"}},
		},
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
	w.Draft.PlayerID = "12345678"
	w.Draft.Rating = intPtr(1500)
	w.Draft.ByeRounds = model.ByeRounds{1, 3}

	s.Require().NoError(s.Storage.SaveWizard(s.Ctx, w))

	retrieved, err := s.Storage.GetWizard(s.Ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.StepByes, retrieved.Step)
	s.Equal("12345678", retrieved.Draft.PlayerID)
	s.Equal(1500, *retrieved.Draft.Rating)
	s.Equal(model.ByeRounds{1, 3}, retrieved.Draft.ByeRounds)
	s.Equal(model.NotifyEmail, retrieved.Draft.NotificationPreference)
	s.Equal(uint64(3), retrieved.Search.Seq)
	s.Require().Len(retrieved.Search.Results, 1)
	s.Equal("Smith", retrieved.Search.Results[0].LastName)
}

func (s *Suite) TestGetWizardNotFound() {
	_, err := s.Storage.GetWizard(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrWizardNotFound)
}

func (s *Suite) TestDeleteWizard() {
	s.Require().NoError(s.Storage.SaveWizard(s.Ctx, &model.Wizard{ID: "sess-1", Draft: model.NewDraft()}))

	s.Require().NoError(s.Storage.DeleteWizard(s.Ctx, "sess-1"))

	_, err := s.Storage.GetWizard(s.Ctx, "sess-1")
	s.ErrorIs(err, model.ErrWizardNotFound)
}

func (s *Suite) TestDeleteIdleWizards() {
	stale := &model.Wizard{ID: "stale", Draft: model.NewDraft(), CreatedAt: baseTime, UpdatedAt: baseTime}
	fresh := &model.Wizard{ID: "fresh", Draft: model.NewDraft(), CreatedAt: baseTime, UpdatedAt: baseTime.Add(2 * time.Hour)}
	s.Require().NoError(s.Storage.SaveWizard(s.Ctx, stale))
	s.Require().NoError(s.Storage.SaveWizard(s.Ctx, fresh))

	deleted, err := s.Storage.DeleteIdleWizards(s.Ctx, baseTime.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, err = s.Storage.GetWizard(s.Ctx, "stale")
	s.ErrorIs(err, model.ErrWizardNotFound)
	_, err = s.Storage.GetWizard(s.Ctx, "fresh")
	s.NoError(err)
}

func (s *Suite) TestDeleteIdleWizardsWithNoneIdle() {
	s.Require().NoError(s.Storage.SaveWizard(s.Ctx, &model.Wizard{ID: "sess-1", Draft: model.NewDraft(), UpdatedAt: baseTime}))

	deleted, err := s.Storage.DeleteIdleWizards(s.Ctx, baseTime)
	s.Require().NoError(err)
	s.Zero(deleted)
}

func (s *Suite) TestSavedWizardIsNotSharedWithCaller() {
	w := &model.Wizard{ID: "sess-1", Draft: model.NewDraft()}
	w.Draft.ByeRounds = model.ByeRounds{2}
	s.Require().NoError(s.Storage.SaveWizard(s.Ctx, w))

	w.Draft.ByeRounds[0] = 5
	w.Draft.Email = "changed@example.com"

	retrieved, err := s.Storage.GetWizard(s.Ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.ByeRounds{2}, retrieved.Draft.ByeRounds)
	s.Empty(retrieved.Draft.Email)
}

// Registration tests

func (s *Suite) registration(id string, eventID string, minutes int) *model.Registration {
	return &model.Registration{
		ID:                     model.RegistrationID(id),
		EventID:                model.EventID(eventID),
		PlayerID:               "12345678",
		PlayerName:             "John Smith",
		Email:                  "john@example.com",
		NotificationPreference: model.NotifyEmail,
		AcceptedTerms:          true,
		RegisteredAt:           baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func (s *Suite) TestSaveAndGetRegistration() {
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("spring-open", 10)))
	reg := s.registration("reg-1", "spring-open", 0)
	reg.Rating = intPtr(1500)
	reg.ByeRounds = "1,3"

	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, reg))

	retrieved, err := s.Storage.GetRegistration(s.Ctx, "reg-1")
	s.Require().NoError(err)
	s.Equal("John Smith", retrieved.PlayerName)
	s.Equal(1500, *retrieved.Rating)
	s.Equal("1,3", retrieved.ByeRounds)
	s.Empty(retrieved.SectionID)
	s.Empty(retrieved.Phone)
	s.True(retrieved.AcceptedTerms)
}

func (s *Suite) TestGetRegistrationNotFound() {
	_, err := s.Storage.GetRegistration(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrRegistrationNotFound)
}

func (s *Suite) TestRegistrationsForEventNewestFirst() {
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("spring-open", 10)))
	s.Require().NoError(s.Storage.SaveEvent(s.Ctx, s.event("summer-open", 60)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, s.registration("reg-1", "spring-open", 0)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, s.registration("reg-2", "spring-open", 5)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, s.registration("reg-3", "summer-open", 1)))

	regs, err := s.Storage.GetRegistrationsForEvent(s.Ctx, "spring-open")
	s.Require().NoError(err)
	s.Require().Len(regs, 2)
	s.Equal(model.RegistrationID("reg-2"), regs[0].ID)
	s.Equal(model.RegistrationID("reg-1"), regs[1].ID)
}

func (s *Suite) TestRegistrationsForEventWithNoneIsEmpty() {
	regs, err := s.Storage.GetRegistrationsForEvent(s.Ctx, "spring-open")
	s.Require().NoError(err)
	s.Empty(regs)
}
