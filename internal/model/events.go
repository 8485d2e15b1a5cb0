package model

import "time"

// WizardEventType identifies the type of wizard event
type WizardEventType string

const (
	EventSearchUpdated WizardEventType = "search_updated"
	EventStepChanged   WizardEventType = "step_changed"
	EventSubmitted     WizardEventType = "submitted"
)

// WizardEvent is pushed to listeners of a wizard session
type WizardEvent struct {
	Type      WizardEventType
	Timestamp time.Time
	SessionID SessionID
	EventID   EventID
	Payload   any // Type-specific data
}

// SearchUpdatedPayload contains data for search updated events
type SearchUpdatedPayload struct {
	Search SearchState
}

// StepChangedPayload contains data for step changed events
type StepChangedPayload struct {
	From Step
	To   Step
}

// SubmittedPayload contains data for submitted events
type SubmittedPayload struct {
	RegistrationID RegistrationID
}
