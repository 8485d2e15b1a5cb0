package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newWizardAt(step Step) *Wizard {
	w := &Wizard{Draft: NewDraft()}
	w.Advance(StepPlayer)
	if step > StepPlayer {
		w.Draft.SetPlayer(&CandidateProfile{ID: "1", FirstName: "A", LastName: "B"})
		w.Advance(StepContact)
	}
	if step > StepContact {
		w.Draft.Email = "a@b.com"
		w.Advance(StepSection)
	}
	if step > StepSection {
		open := OpenSection("evt")
		w.Draft.SetSection(&open)
		w.Advance(StepByes)
	}
	if step > StepByes {
		w.Advance(StepTerms)
	}
	return w
}

func TestOnlyReachedStepsAreVisible(t *testing.T) {
	w := newWizardAt(StepContact)

	assert.True(t, w.IsVisible(StepPlayer))
	assert.True(t, w.IsVisible(StepContact))
	assert.False(t, w.IsVisible(StepSection))
	assert.True(t, w.IsCollapsed(StepPlayer))
	assert.True(t, w.IsActive(StepContact))
}

func TestReopenedStepKeepsLaterStepsVisible(t *testing.T) {
	w := newWizardAt(StepTerms)
	w.Advance(StepContact)

	assert.True(t, w.IsActive(StepContact))
	assert.True(t, w.IsCollapsed(StepSection))
	assert.True(t, w.IsCollapsed(StepTerms))
	assert.Equal(t, StepTerms, w.Furthest)
}

func TestCanReopenRequiresEarlierStepsComplete(t *testing.T) {
	w := newWizardAt(StepTerms)
	w.Advance(StepContact)
	w.Draft.Email = "broken"

	assert.False(t, w.CanReopen(StepByes))
	assert.False(t, w.CanReopen(StepContact))
	assert.True(t, w.CanReopen(StepPlayer))
}

func TestCanSubmitRequiresAcceptedTerms(t *testing.T) {
	w := newWizardAt(StepTerms)
	assert.False(t, w.CanSubmit())

	w.Draft.AcceptedTerms = true
	assert.True(t, w.CanSubmit())

	w.Submitting = true
	assert.False(t, w.CanSubmit())
}

func TestResetClearsDraft(t *testing.T) {
	w := newWizardAt(StepTerms)
	w.Draft.ByeRounds = ByeRounds{2}
	w.Draft.AcceptedTerms = true
	w.Search.Seq = 4

	w.Reset()

	assert.Equal(t, NewDraft(), w.Draft)
	assert.Equal(t, StepPlayer, w.Step)
	assert.Equal(t, StepPlayer, w.Furthest)
	assert.Equal(t, uint64(4), w.Search.Seq)
}

func TestSubmittedHidesSteps(t *testing.T) {
	w := newWizardAt(StepTerms)
	w.Advance(StepSubmitted)

	assert.True(t, w.IsSubmitted())
	for _, step := range WizardSteps {
		assert.False(t, w.IsVisible(step))
	}
}
