package model

import "strings"

// RegularRatingSystem is the federation's code for over-the-board regular ratings
const RegularRatingSystem = "R"

// Rating is one rating entry of a federation member
type Rating struct {
	RatingSystem  string
	Rating        *int
	GamesPlayed   int
	IsProvisional bool
}

// CandidateProfile is a federation member returned by a player search.
// Profiles are read-only snapshots of the directory.
type CandidateProfile struct {
	ID             string
	FirstName      string
	LastName       string
	Title          string
	StateRep       string
	Status         string
	ExpirationDate string // YYYY-MM-DD as supplied by the directory
	Ratings        []Rating
}

// FullName returns "First Last", skipping empty parts
func (c *CandidateProfile) FullName() string {
	return strings.TrimSpace(strings.Join([]string{c.FirstName, c.LastName}, " "))
}

// RegularRating returns the regular rating, or nil when the member is unrated
func (c *CandidateProfile) RegularRating() *int {
	for _, r := range c.Ratings {
		if r.RatingSystem == RegularRatingSystem && r.Rating != nil {
			rating := *r.Rating
			return &rating
		}
	}
	return nil
}
