package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NotificationPreference controls how a registrant hears about pairings and updates
type NotificationPreference string

const (
	NotifyNone  NotificationPreference = "none"
	NotifyEmail NotificationPreference = "email"
	NotifyText  NotificationPreference = "text"
	NotifyBoth  NotificationPreference = "both"
)

// NotificationPreferences lists the selectable preferences in display order
var NotificationPreferences = []NotificationPreference{NotifyEmail, NotifyText, NotifyBoth, NotifyNone}

// ParseNotificationPreference validates a preference value. Empty input yields the default.
func ParseNotificationPreference(s string) (NotificationPreference, error) {
	if s == "" {
		return NotifyEmail, nil
	}
	p := NotificationPreference(s)
	if !slices.Contains(NotificationPreferences, p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNotificationPreference, s)
	}
	return p, nil
}

// Label returns the human-readable preference
func (p NotificationPreference) Label() string {
	switch p {
	case NotifyNone:
		return "No notifications"
	case NotifyText:
		return "Text message"
	case NotifyBoth:
		return "Email and text"
	default:
		return "Email"
	}
}

// Address is an optional postal address
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// IsEmpty returns true if no address part is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Zip == ""
}

// Contact holds the fields captured in the contact step
type Contact struct {
	Email                  string
	Phone                  string
	Address                Address
	NotificationPreference NotificationPreference
}

// IsValidEmail applies the registration form's email rule: non-empty,
// containing both "@" and ".".
func IsValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}

// ByeRounds is a set of requested bye rounds, kept sorted ascending
type ByeRounds []int

// Contains returns true if the round is in the set
func (b ByeRounds) Contains(round int) bool {
	_, found := slices.BinarySearch(b, round)
	return found
}

// Toggle adds the round if absent and removes it if present
func (b ByeRounds) Toggle(round int) ByeRounds {
	idx, found := slices.BinarySearch(b, round)
	if found {
		return slices.Delete(slices.Clone(b), idx, idx+1)
	}
	return slices.Insert(slices.Clone(b), idx, round)
}

// Serialize returns the comma-joined ascending rounds, or false when the set is empty
func (b ByeRounds) Serialize() (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	parts := make([]string, len(b))
	for i, r := range b {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ","), true
}

// ParseByeRounds parses a serialized set such as "3,1". Duplicates collapse.
func ParseByeRounds(s string) (ByeRounds, error) {
	var rounds ByeRounds
	if strings.TrimSpace(s) == "" {
		return rounds, nil
	}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRound, part)
		}
		if !rounds.Contains(n) {
			rounds = rounds.Toggle(n)
		}
	}
	return rounds, nil
}

// Draft is the in-progress registration being assembled by a wizard session
type Draft struct {
	// Player step
	PlayerID             string
	PlayerName           string
	Rating               *int
	PlayerState          string
	MembershipExpiration string

	// Contact step
	Email                  string
	Phone                  string
	Address                Address
	NotificationPreference NotificationPreference

	// Section step
	SectionSelected bool
	SectionID       SectionID
	SectionName     string
	SectionFee      *int

	// Bye step
	ByeRounds ByeRounds

	// Terms step
	AcceptedTerms bool
}

// NewDraft returns an empty draft with default preferences
func NewDraft() Draft {
	return Draft{NotificationPreference: NotifyEmail}
}

// HasPlayer returns true once a candidate has been selected
func (d *Draft) HasPlayer() bool {
	return d.PlayerID != ""
}

// SetPlayer copies the candidate's details into the draft
func (d *Draft) SetPlayer(c *CandidateProfile) {
	d.PlayerID = c.ID
	d.PlayerName = c.FullName()
	d.Rating = c.RegularRating()
	d.PlayerState = c.StateRep
	d.MembershipExpiration = c.ExpirationDate
}

// Contact returns the contact step fields
func (d *Draft) Contact() Contact {
	return Contact{
		Email:                  d.Email,
		Phone:                  d.Phone,
		Address:                d.Address,
		NotificationPreference: d.NotificationPreference,
	}
}

// SetContact stores the contact step fields, trimming surrounding whitespace
func (d *Draft) SetContact(c Contact) {
	d.Email = strings.TrimSpace(c.Email)
	d.Phone = strings.TrimSpace(c.Phone)
	d.Address = Address{
		Street: strings.TrimSpace(c.Address.Street),
		City:   strings.TrimSpace(c.Address.City),
		State:  strings.TrimSpace(c.Address.State),
		Zip:    strings.TrimSpace(c.Address.Zip),
	}
	d.NotificationPreference = c.NotificationPreference
	if d.NotificationPreference == "" {
		d.NotificationPreference = NotifyEmail
	}
}

// SetSection records the chosen section
func (d *Draft) SetSection(s *Section) {
	d.SectionSelected = true
	d.SectionID = s.ID
	d.SectionName = s.Name
	d.SectionFee = nil
	if s.EntryFee != nil {
		fee := *s.EntryFee
		d.SectionFee = &fee
	}
}

// DisplaySectionName returns the chosen section name, or "Open" when none was chosen
func (d *Draft) DisplaySectionName() string {
	if d.SectionName == "" {
		return OpenSectionName
	}
	return d.SectionName
}
