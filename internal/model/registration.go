package model

import "time"

// RegistrationID uniquely identifies a persisted registration
type RegistrationID string

// Registration is the persisted record of a completed wizard.
// Optional fields are omitted when unset rather than stored as blanks.
type Registration struct {
	ID                     RegistrationID         `json:"id"`
	EventID                EventID                `json:"eventId"`
	SectionID              SectionID              `json:"sectionId,omitempty"`
	PlayerID               string                 `json:"playerId"`
	PlayerName             string                 `json:"playerName"`
	Rating                 *int                   `json:"rating,omitempty"`
	PlayerState            string                 `json:"playerState,omitempty"`
	MembershipExpiration   string                 `json:"membershipExpiration,omitempty"`
	Email                  string                 `json:"email"`
	Phone                  string                 `json:"phone,omitempty"`
	StreetAddress          string                 `json:"streetAddress,omitempty"`
	City                   string                 `json:"city,omitempty"`
	StateAddress           string                 `json:"stateAddress,omitempty"`
	ZipCode                string                 `json:"zipCode,omitempty"`
	NotificationPreference NotificationPreference `json:"notificationPreference,omitempty"`
	ByeRounds              string                 `json:"byeRounds,omitempty"`
	AcceptedTerms          bool                   `json:"acceptedTerms"`
	RegisteredAt           time.Time              `json:"registeredAt"`
}

// NewRegistration assembles the record for a draft
func NewRegistration(eventID EventID, d *Draft) Registration {
	reg := Registration{
		EventID:                eventID,
		SectionID:              d.SectionID,
		PlayerID:               d.PlayerID,
		PlayerName:             d.PlayerName,
		PlayerState:            d.PlayerState,
		MembershipExpiration:   d.MembershipExpiration,
		Email:                  d.Email,
		Phone:                  d.Phone,
		StreetAddress:          d.Address.Street,
		City:                   d.Address.City,
		StateAddress:           d.Address.State,
		ZipCode:                d.Address.Zip,
		NotificationPreference: d.NotificationPreference,
		AcceptedTerms:          d.AcceptedTerms,
	}
	if d.Rating != nil {
		rating := *d.Rating
		reg.Rating = &rating
	}
	if byes, ok := d.ByeRounds.Serialize(); ok {
		reg.ByeRounds = byes
	}
	return reg
}

// Confirmation acknowledges a persisted registration
type Confirmation struct {
	RegistrationID RegistrationID
	RegisteredAt   time.Time
}
