package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRatingBand(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    string
	}{
		{"unbounded", Section{}, ""},
		{"minimum only", Section{MinRating: intPtr(1800)}, "1800+"},
		{"maximum only", Section{MaxRating: intPtr(1200)}, "Under 1200"},
		{"range", Section{MinRating: intPtr(1200), MaxRating: intPtr(1600)}, "1200+ to Under 1600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.section.RatingBand())
		})
	}
}

func TestEligibilityIsAdvisory(t *testing.T) {
	u1600 := Section{MaxRating: intPtr(1600)}
	assert.Equal(t, EligibilityEligible, u1600.Eligibility(intPtr(1500)))
	assert.Equal(t, EligibilityOutside, u1600.Eligibility(intPtr(1600)))
	assert.Equal(t, EligibilityUnknown, u1600.Eligibility(nil))

	premier := Section{MinRating: intPtr(1800)}
	assert.Equal(t, EligibilityOutside, premier.Eligibility(intPtr(1500)))
	assert.Equal(t, EligibilityEligible, premier.Eligibility(intPtr(1800)))

	open := OpenSection("evt")
	assert.Equal(t, EligibilityEligible, open.Eligibility(nil))
	assert.True(t, open.IsOpen())
	assert.Equal(t, "Open", open.Name)
}

func TestEventRoundsDefaultsToFive(t *testing.T) {
	e := Event{}
	assert.Equal(t, 5, e.Rounds())

	e.RoundCount = 7
	assert.Equal(t, 7, e.Rounds())
}

func TestRegistrationStatusAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	e := Event{RegistrationOpen: true, EventDate: now.Add(24 * time.Hour)}
	assert.Equal(t, RegistrationStatusOpen, e.RegistrationStatusAt(now))

	e.EventDate = now.Add(-time.Hour)
	assert.Equal(t, RegistrationStatusPast, e.RegistrationStatusAt(now))

	e.RegistrationOpen = false
	assert.Equal(t, RegistrationStatusClosed, e.RegistrationStatusAt(now))
}
