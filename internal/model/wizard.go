package model

import "time"

// SessionID identifies one registration wizard session
type SessionID string

// Step is a stage of the registration wizard
type Step int

const (
	StepPlayer Step = iota + 1
	StepContact
	StepSection
	StepByes
	StepTerms
	StepSubmitted
)

// WizardSteps lists the interactive steps in order
var WizardSteps = []Step{StepPlayer, StepContact, StepSection, StepByes, StepTerms}

// Title returns the heading shown for the step
func (s Step) Title() string {
	switch s {
	case StepPlayer:
		return "Find Your USCF Record"
	case StepContact:
		return "Contact Information"
	case StepSection:
		return "Choose Section"
	case StepByes:
		return "Bye Requests"
	case StepTerms:
		return "Tournament Terms"
	case StepSubmitted:
		return "Registration Complete"
	default:
		return ""
	}
}

// Valid returns true for the interactive steps
func (s Step) Valid() bool {
	return s >= StepPlayer && s <= StepTerms
}

// SubmitFailedMessage is shown when a submission attempt fails for any reason
const SubmitFailedMessage = "Failed to complete registration. Please try again."

// SearchState is the player search attached to a session
type SearchState struct {
	Query     string
	Results   []CandidateProfile
	Searching bool
	Seq       uint64 // Latest search issued; results for older searches are discarded
}

// FindResult returns the result with the given member ID, or nil
func (s *SearchState) FindResult(memberID string) *CandidateProfile {
	for i := range s.Results {
		if s.Results[i].ID == memberID {
			return &s.Results[i]
		}
	}
	return nil
}

// Wizard is one registration session for an event
type Wizard struct {
	ID       SessionID
	EventID  EventID
	Step     Step // The active step
	Furthest Step // Highest step reached; steps up to here are rendered
	Draft    Draft
	Search   SearchState

	Submitting      bool
	SubmitStartedAt time.Time
	SubmitError     string
	RegistrationID  RegistrationID // Set once submitted

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSubmitted returns true once the registration has been persisted
func (w *Wizard) IsSubmitted() bool {
	return w.Step == StepSubmitted
}

// StepComplete reports whether the step's data satisfies its completion rule
func (w *Wizard) StepComplete(step Step) bool {
	switch step {
	case StepPlayer:
		return w.Draft.HasPlayer()
	case StepContact:
		return IsValidEmail(w.Draft.Email)
	case StepSection:
		return w.Draft.SectionSelected
	case StepByes:
		return w.Furthest > StepByes
	case StepTerms:
		return w.Draft.AcceptedTerms
	default:
		return false
	}
}

// PriorStepsComplete returns true if every step before the given one is complete
func (w *Wizard) PriorStepsComplete(step Step) bool {
	for s := StepPlayer; s < step; s++ {
		if !w.StepComplete(s) {
			return false
		}
	}
	return true
}

// IsVisible returns true if the step should be rendered
func (w *Wizard) IsVisible(step Step) bool {
	return !w.IsSubmitted() && step.Valid() && step <= w.Furthest
}

// IsActive returns true if the step is the editable one
func (w *Wizard) IsActive(step Step) bool {
	return !w.IsSubmitted() && w.Step == step
}

// IsCollapsed returns true if the step is rendered as a read-only summary
func (w *Wizard) IsCollapsed(step Step) bool {
	return w.IsVisible(step) && !w.IsActive(step)
}

// CanReopen returns true if a collapsed step may be made active again
func (w *Wizard) CanReopen(step Step) bool {
	return w.IsCollapsed(step) && w.PriorStepsComplete(step)
}

// CanSubmit returns true if the terms step is active, accepted, and no submission is running
func (w *Wizard) CanSubmit() bool {
	return w.IsActive(StepTerms) && w.Draft.AcceptedTerms && !w.Submitting
}

// Advance makes the step active, extending the furthest step reached
func (w *Wizard) Advance(step Step) {
	w.Step = step
	if step > w.Furthest {
		w.Furthest = step
	}
}

// Reset discards the draft and returns to the player step
func (w *Wizard) Reset() {
	w.Draft = NewDraft()
	w.Search = SearchState{Seq: w.Search.Seq}
	w.Step = StepPlayer
	w.Furthest = StepPlayer
	w.Submitting = false
	w.SubmitError = ""
}
