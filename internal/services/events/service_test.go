package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessclub/internal/dependencies/mocks"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage/memory"
	"github.com/mcoot/chessclub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

const seedYAML = `
events:
  - id: winter-open
    title: Winter Open
    date: 2024-02-10T09:00:00-06:00
    entryFee: "$40"
    timeControl: G/90;d5
    rounds: 4
    sections:
      - id: u1200
        name: Under 1200
        entryFee: 30
        maxRating: 1200
        sortOrder: 1
      - id: open
        name: Open Section
        entryFee: 40
        sortOrder: 0
  - id: blitz-night
    title: Blitz Night
    date: 2024-01-17T19:00:00-06:00
    entryFee: "$10"
  - id: closed-event
    title: Closed Event
    date: 2024-03-01T09:00:00-06:00
    registrationOpen: false
  - id: old-event
    title: Old Event
    date: 2023-12-01T09:00:00-06:00
  - id: inactive-event
    title: Inactive
    date: 2024-05-01T09:00:00-06:00
    active: false
`

func (s *ServiceSuite) seed() {
	s.Require().NoError(s.service.LoadSeed(s.ctx, strings.NewReader(seedYAML)))
}

// Seed tests

func (s *ServiceSuite) TestLoadSeedStoresEvents() {
	s.seed()

	event, err := s.service.GetEvent(s.ctx, "winter-open")
	s.Require().NoError(err)
	s.Equal("Winter Open", event.Title)
	s.Equal(4, event.RoundCount)
	s.True(event.IsActive)
	s.True(event.RegistrationOpen)
	s.Equal("G/90;d5", event.TimeControl)

	closed, err := s.service.GetEvent(s.ctx, "closed-event")
	s.Require().NoError(err)
	s.False(closed.RegistrationOpen)
	s.Equal(5, closed.Rounds())
}

func (s *ServiceSuite) TestLoadSeedReplacesSections() {
	s.seed()
	replacement := `
events:
  - id: winter-open
    title: Winter Open
    date: 2024-02-10T09:00:00-06:00
    sections:
      - id: premier
        name: Premier
        minRating: 1800
`
	s.Require().NoError(s.service.LoadSeed(s.ctx, strings.NewReader(replacement)))

	sections, err := s.service.ListSections(s.ctx, "winter-open")
	s.Require().NoError(err)
	s.Require().Len(sections, 1)
	s.Equal("Premier", sections[0].Name)
}

func (s *ServiceSuite) TestLoadSeedRejectsInvalidSections() {
	tests := map[string]string{
		"missing title": `
events:
  - id: x
`,
		"duplicate section": `
events:
  - id: x
    title: X
    sections:
      - {id: a, name: A}
      - {id: a, name: B}
`,
		"empty band": `
events:
  - id: x
    title: X
    sections:
      - {id: a, name: A, minRating: 1600, maxRating: 1200}
`,
	}
	for name, doc := range tests {
		s.Run(name, func() {
			s.Error(s.service.LoadSeed(s.ctx, strings.NewReader(doc)))
		})
	}
}

func (s *ServiceSuite) TestLoadEmptySeed() {
	s.Require().NoError(s.service.LoadSeed(s.ctx, strings.NewReader("")))
}

// Listing tests

func (s *ServiceSuite) TestListUpcomingSkipsPastAndInactive() {
	s.seed()

	events, err := s.service.ListUpcoming(s.ctx)
	s.Require().NoError(err)

	var ids []model.EventID
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	s.Equal([]model.EventID{"blitz-night", "winter-open", "closed-event"}, ids)
}

func (s *ServiceSuite) TestListSectionsInSortOrder() {
	s.seed()

	sections, err := s.service.ListSections(s.ctx, "winter-open")
	s.Require().NoError(err)
	s.Require().Len(sections, 2)
	s.Equal("Open Section", sections[0].Name)
	s.Equal("Under 1200", sections[1].Name)
	s.Equal("Under 1200", sections[1].RatingBand())
}

func (s *ServiceSuite) TestListSectionsCapsAtTwenty() {
	s.seed()
	for i := range 25 {
		s.Require().NoError(s.storage.SaveSection(s.ctx, &model.Section{
			ID: model.SectionID(string(rune('a' + i))), EventID: "blitz-night", Name: "S", SortOrder: i,
		}))
	}

	sections, err := s.service.ListSections(s.ctx, "blitz-night")
	s.Require().NoError(err)
	s.Len(sections, 20)
}

// Load tests

func (s *ServiceSuite) TestLoadWithSections() {
	s.seed()

	details, err := s.service.Load(s.ctx, "winter-open")
	s.Require().NoError(err)
	s.Equal(model.RegistrationStatusOpen, details.Status)
	s.True(details.HasConfiguredSections())
	s.Len(details.Sections, 2)

	section, err := details.FindSection("u1200")
	s.Require().NoError(err)
	s.Equal(30, *section.EntryFee)

	_, err = details.FindSection("")
	s.ErrorIs(err, model.ErrSectionNotFound)
}

func (s *ServiceSuite) TestLoadWithoutSectionsOffersOpen() {
	s.seed()

	details, err := s.service.Load(s.ctx, "blitz-night")
	s.Require().NoError(err)
	s.False(details.HasConfiguredSections())
	s.Require().Len(details.Sections, 1)
	s.Equal("Open", details.Sections[0].Name)
	s.True(details.Sections[0].IsOpen())

	section, err := details.FindSection("")
	s.Require().NoError(err)
	s.Nil(section.EntryFee)
}

func (s *ServiceSuite) TestLoadUnknownEvent() {
	_, err := s.service.Load(s.ctx, "missing")
	s.ErrorIs(err, model.ErrEventNotFound)
}

// Registration gate tests

func (s *ServiceSuite) TestCheckRegistrationOpen() {
	s.seed()

	_, err := s.service.CheckRegistrationOpen(s.ctx, "winter-open")
	s.Require().NoError(err)

	details, err := s.service.CheckRegistrationOpen(s.ctx, "closed-event")
	s.True(IsClosed(err))
	s.Equal(model.RegistrationStatusClosed, details.Status)

	details, err = s.service.CheckRegistrationOpen(s.ctx, "old-event")
	s.True(errors.Is(err, model.ErrRegistrationClosed))
	s.Equal(model.RegistrationStatusPast, details.Status)
}

func (s *ServiceSuite) TestRegistrationClosesWhenEventPasses() {
	s.seed()
	s.clock.Advance(60 * 24 * time.Hour)

	_, err := s.service.CheckRegistrationOpen(s.ctx, "winter-open")
	s.True(IsClosed(err))
}
