package response

import (
	"time"

	"github.com/mcoot/chessclub/internal/format"
	"github.com/mcoot/chessclub/internal/model"
)

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

// Event represents a tournament in API responses
type Event struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	EventDate          time.Time `json:"event_date"`
	Location           string    `json:"location,omitempty"`
	EntryFee           string    `json:"entry_fee,omitempty"`
	TimeControl        string    `json:"time_control,omitempty"`
	Rounds             int       `json:"rounds"`
	RegistrationStatus string    `json:"registration_status"`
}

// EventFromModel converts a model.Event
func EventFromModel(e *model.Event, status model.RegistrationStatus) Event {
	return Event{
		ID:                 string(e.ID),
		Title:              e.Title,
		Description:        e.Description,
		EventDate:          e.EventDate,
		Location:           e.Location,
		EntryFee:           e.EntryFee,
		TimeControl:        e.TimeControl,
		Rounds:             e.Rounds(),
		RegistrationStatus: string(status),
	}
}

// Section represents a section of an event
type Section struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	EntryFee  string `json:"entry_fee,omitempty"`
	MinRating *int   `json:"min_rating,omitempty"`
	MaxRating *int   `json:"max_rating,omitempty"`
}

// SectionFromModel converts a model.Section. Sections without their own fee
// report the event's fee.
func SectionFromModel(s *model.Section, e *model.Event) Section {
	return Section{
		ID:        string(s.ID),
		Name:      s.Name,
		EntryFee:  format.SectionFee(s, e),
		MinRating: s.MinRating,
		MaxRating: s.MaxRating,
	}
}

// EventDetail is an event with its sections
type EventDetail struct {
	Event
	Sections []Section `json:"sections"`
}

// EventDetailFromModel converts an event and its sections
func EventDetailFromModel(e *model.Event, sections []model.Section, status model.RegistrationStatus) EventDetail {
	detail := EventDetail{
		Event:    EventFromModel(e, status),
		Sections: make([]Section, len(sections)),
	}
	for i := range sections {
		detail.Sections[i] = SectionFromModel(&sections[i], e)
	}
	return detail
}

// Candidate represents a federation member
type Candidate struct {
	MemberID       string `json:"member_id"`
	Name           string `json:"name"`
	Title          string `json:"title,omitempty"`
	State          string `json:"state,omitempty"`
	Status         string `json:"status,omitempty"`
	Rating         *int   `json:"rating"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

// CandidateFromModel converts a model.CandidateProfile
func CandidateFromModel(c *model.CandidateProfile) Candidate {
	return Candidate{
		MemberID:       c.ID,
		Name:           c.FullName(),
		Title:          c.Title,
		State:          c.StateRep,
		Status:         c.Status,
		Rating:         c.RegularRating(),
		ExpirationDate: c.ExpirationDate,
	}
}

// CandidatesFromModel converts a list of candidates
func CandidatesFromModel(cs []model.CandidateProfile) []Candidate {
	out := make([]Candidate, len(cs))
	for i := range cs {
		out[i] = CandidateFromModel(&cs[i])
	}
	return out
}

// Search is the player search attached to a session
type Search struct {
	Query     string      `json:"query"`
	Searching bool        `json:"searching"`
	Results   []Candidate `json:"results"`
}

// Draft is the data entered so far
type Draft struct {
	PlayerID               string `json:"player_id,omitempty"`
	PlayerName             string `json:"player_name,omitempty"`
	Rating                 *int   `json:"rating,omitempty"`
	PlayerState            string `json:"player_state,omitempty"`
	MembershipExpiration   string `json:"membership_expiration,omitempty"`
	Email                  string `json:"email,omitempty"`
	Phone                  string `json:"phone,omitempty"`
	Street                 string `json:"street,omitempty"`
	City                   string `json:"city,omitempty"`
	State                  string `json:"state,omitempty"`
	Zip                    string `json:"zip,omitempty"`
	NotificationPreference string `json:"notification_preference,omitempty"`
	SectionID              string `json:"section_id,omitempty"`
	SectionName            string `json:"section_name,omitempty"`
	ByeRounds              []int  `json:"bye_rounds"`
	AcceptedTerms          bool   `json:"accepted_terms"`
}

// DraftFromModel converts a model.Draft
func DraftFromModel(d *model.Draft) Draft {
	byes := make([]int, len(d.ByeRounds))
	copy(byes, d.ByeRounds)
	out := Draft{
		PlayerID:               d.PlayerID,
		PlayerName:             d.PlayerName,
		Rating:                 d.Rating,
		PlayerState:            d.PlayerState,
		MembershipExpiration:   d.MembershipExpiration,
		Email:                  d.Email,
		Phone:                  d.Phone,
		Street:                 d.Address.Street,
		City:                   d.Address.City,
		State:                  d.Address.State,
		Zip:                    d.Address.Zip,
		NotificationPreference: string(d.NotificationPreference),
		ByeRounds:              byes,
		AcceptedTerms:          d.AcceptedTerms,
	}
	if d.SectionSelected {
		out.SectionID = string(d.SectionID)
		out.SectionName = d.DisplaySectionName()
	}
	return out
}

// Wizard represents a registration session
type Wizard struct {
	ID             string `json:"id"`
	EventID        string `json:"event_id"`
	Step           int    `json:"step"`
	StepTitle      string `json:"step_title"`
	Furthest       int    `json:"furthest"`
	Draft          Draft  `json:"draft"`
	Search         Search `json:"search"`
	CanSubmit      bool   `json:"can_submit"`
	Submitting     bool   `json:"submitting"`
	SubmitError    string `json:"submit_error,omitempty"`
	RegistrationID string `json:"registration_id,omitempty"`
}

// WizardFromModel converts a model.Wizard
func WizardFromModel(w *model.Wizard) Wizard {
	return Wizard{
		ID:        string(w.ID),
		EventID:   string(w.EventID),
		Step:      int(w.Step),
		StepTitle: w.Step.Title(),
		Furthest:  int(w.Furthest),
		Draft:     DraftFromModel(&w.Draft),
		Search: Search{
			Query:     w.Search.Query,
			Searching: w.Search.Searching,
			Results:   CandidatesFromModel(w.Search.Results),
		},
		CanSubmit:      w.CanSubmit(),
		Submitting:     w.Submitting,
		SubmitError:    w.SubmitError,
		RegistrationID: string(w.RegistrationID),
	}
}

// Registration represents a persisted registration
type Registration struct {
	ID                     string    `json:"id"`
	EventID                string    `json:"event_id"`
	SectionID              string    `json:"section_id,omitempty"`
	PlayerID               string    `json:"player_id"`
	PlayerName             string    `json:"player_name"`
	Rating                 *int      `json:"rating,omitempty"`
	PlayerState            string    `json:"player_state,omitempty"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone,omitempty"`
	NotificationPreference string    `json:"notification_preference,omitempty"`
	ByeRounds              string    `json:"bye_rounds,omitempty"`
	RegisteredAt           time.Time `json:"registered_at"`
}

// RegistrationFromModel converts a model.Registration
func RegistrationFromModel(r *model.Registration) Registration {
	return Registration{
		ID:                     string(r.ID),
		EventID:                string(r.EventID),
		SectionID:              string(r.SectionID),
		PlayerID:               r.PlayerID,
		PlayerName:             r.PlayerName,
		Rating:                 r.Rating,
		PlayerState:            r.PlayerState,
		Email:                  r.Email,
		Phone:                  r.Phone,
		NotificationPreference: string(r.NotificationPreference),
		ByeRounds:              r.ByeRounds,
		RegisteredAt:           r.RegisteredAt,
	}
}
