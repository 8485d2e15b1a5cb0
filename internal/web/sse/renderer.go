package sse

import (
	"bytes"
	"context"
	"strconv"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/web/templates/components"
)

// Event names listened for by the registration page
const (
	EventSearchUpdated = "search-updated"
	EventStepChanged   = "step-changed"
	EventSubmitted     = "submitted"
)

// Renderer renders wizard events as SSE payloads
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderSearchResults renders the search results fragment for an out-of-band swap
func (r *Renderer) RenderSearchResults(ctx context.Context, w *model.Wizard) (string, error) {
	var buf bytes.Buffer
	if err := components.SearchResults(w, true).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EventData represents SSE event data
type EventData struct {
	EventName string
	HTML      string
}

// RenderWizardEvent converts a wizard event to the SSE messages to broadcast.
// Step changes carry only the new step; the page refetches the wizard itself.
func (r *Renderer) RenderWizardEvent(ctx context.Context, event model.WizardEvent, w *model.Wizard) ([]EventData, error) {
	var events []EventData

	switch event.Type {
	case model.EventSearchUpdated:
		html, err := r.RenderSearchResults(ctx, w)
		if err != nil {
			return nil, err
		}
		events = append(events, EventData{EventName: EventSearchUpdated, HTML: html})

	case model.EventStepChanged:
		events = append(events, EventData{
			EventName: EventStepChanged,
			HTML:      strconv.Itoa(int(w.Step)),
		})

	case model.EventSubmitted:
		events = append(events, EventData{
			EventName: EventSubmitted,
			HTML:      string(w.RegistrationID),
		})
	}

	return events, nil
}
