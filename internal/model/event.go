package model

import "time"

// EventID uniquely identifies a tournament event
type EventID string

// DefaultRoundCount is used when an event does not configure its round count
const DefaultRoundCount = 5

// RegistrationStatus describes whether an event currently accepts registrations
type RegistrationStatus string

const (
	RegistrationStatusOpen   RegistrationStatus = "open"
	RegistrationStatusClosed RegistrationStatus = "closed" // Organiser closed registration
	RegistrationStatusPast   RegistrationStatus = "past"   // Event date has passed
)

// Event is a tournament that players can register for
type Event struct {
	ID               EventID
	Title            string
	Description      string
	EventDate        time.Time
	Location         string
	EntryFee         string // Display string, e.g. "$40" or "Free"
	TimeControl      string
	IsActive         bool
	RoundCount       int // 0 means DefaultRoundCount
	RegistrationOpen bool
	Terms            string // Markdown; empty uses the club's standard terms
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Rounds returns the number of rounds players can request byes for
func (e *Event) Rounds() int {
	if e.RoundCount <= 0 {
		return DefaultRoundCount
	}
	return e.RoundCount
}

// RegistrationStatusAt reports whether registration is open at the given time.
// A closed flag takes precedence over the event date.
func (e *Event) RegistrationStatusAt(now time.Time) RegistrationStatus {
	if !e.RegistrationOpen {
		return RegistrationStatusClosed
	}
	if e.EventDate.Before(now) {
		return RegistrationStatusPast
	}
	return RegistrationStatusOpen
}
