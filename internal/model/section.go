package model

import (
	"fmt"
	"time"
)

// SectionID identifies a tournament section. The empty ID is the synthetic Open section.
type SectionID string

// OpenSectionName is the name of the section offered when an event has none configured
const OpenSectionName = "Open"

// MaxSectionsPerEvent caps the number of sections offered for one event
const MaxSectionsPerEvent = 20

// Section is a tournament sub-division with its own fee and rating band
type Section struct {
	ID        SectionID
	EventID   EventID
	Name      string
	EntryFee  *int // Whole dollars; nil falls back to the event fee
	MinRating *int
	MaxRating *int
	SortOrder int
	CreatedAt time.Time
}

// OpenSection returns the synthetic section offered for events without sections
func OpenSection(eventID EventID) Section {
	return Section{EventID: eventID, Name: OpenSectionName}
}

// IsOpen reports whether this is the synthetic Open section
func (s *Section) IsOpen() bool {
	return s.ID == ""
}

// RatingBand formats the section's rating bounds, e.g. "1200+", "Under 1600",
// "1200+ to Under 1600". Unbounded sections return "".
func (s *Section) RatingBand() string {
	switch {
	case s.MinRating != nil && s.MaxRating != nil:
		return fmt.Sprintf("%d+ to Under %d", *s.MinRating, *s.MaxRating)
	case s.MinRating != nil:
		return fmt.Sprintf("%d+", *s.MinRating)
	case s.MaxRating != nil:
		return fmt.Sprintf("Under %d", *s.MaxRating)
	default:
		return ""
	}
}

// Eligibility is an advisory classification of a rating against a section's band
type Eligibility string

const (
	EligibilityEligible Eligibility = "eligible"
	EligibilityOutside  Eligibility = "outside_band"
	EligibilityUnknown  Eligibility = "unknown" // Unrated player in a bounded section
)

// Eligibility classifies the rating against the section's band. It never blocks selection.
func (s *Section) Eligibility(rating *int) Eligibility {
	if s.MinRating == nil && s.MaxRating == nil {
		return EligibilityEligible
	}
	if rating == nil {
		return EligibilityUnknown
	}
	if s.MinRating != nil && *rating < *s.MinRating {
		return EligibilityOutside
	}
	if s.MaxRating != nil && *rating >= *s.MaxRating {
		return EligibilityOutside
	}
	return EligibilityEligible
}
