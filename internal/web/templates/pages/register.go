package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/chessclub/internal/format"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/web/templates/components"
	"github.com/mcoot/chessclub/internal/web/templates/layout"
	"github.com/mcoot/chessclub/internal/web/templates/markup"
)

// RegisterData is the data for the registration wizard page
type RegisterData struct {
	layout.PageData
	View components.WizardView
}

// Register renders the event header, the session's event stream and the wizard
func Register(data RegisterData) templ.Component {
	return layout.Base(data.PageData, markup.Func(func(ctx context.Context, m *markup.Writer) {
		v := data.View
		eventHeader(m, v.Event)

		base := components.RegisterPath(v.Wizard.EventID)
		if !v.Wizard.IsSubmitted() {
			// Search results arrive as out-of-band swaps; step changes made in
			// another tab trigger a refresh of the wizard fragment.
			m.Raw(`<div id="wizard-events" hx-ext="sse" sse-connect="`)
			m.Text(base + "/stream")
			m.Raw(`"><div sse-swap="search-updated" hx-swap="none"></div><div hx-get="`)
			m.Text(base)
			m.Raw(`" hx-trigger="sse:step-changed" hx-target="#wizard" hx-swap="outerHTML"></div></div>`)
		}
		m.Component(ctx, components.Wizard(v))
	}))
}

func eventHeader(m *markup.Writer, e *model.Event) {
	if e == nil {
		return
	}
	m.Raw(`<header class="event-header"><h1>`)
	m.Text(e.Title)
	m.Raw(`</h1><p class="event-date">`)
	m.Text(format.EventDate(e.EventDate))
	m.Raw(`</p>`)
	if e.Location != "" {
		m.Raw(`<p class="event-location">`)
		m.Text(e.Location)
		m.Raw(`</p>`)
	}
	if e.TimeControl != "" {
		m.Raw(`<p class="event-time-control">Time control: `)
		m.Text(e.TimeControl)
		m.Raw(`</p>`)
	}
	if e.Description != "" {
		m.Raw(`<p class="event-description">`)
		m.Text(e.Description)
		m.Raw(`</p>`)
	}
	m.Raw(`</header>`)
}

// ClosedData is the data for the registration closed page
type ClosedData struct {
	layout.PageData
	Event  *model.Event
	Status model.RegistrationStatus
}

// RegistrationClosed is shown instead of the wizard when the event does not accept registrations
func RegistrationClosed(data ClosedData) templ.Component {
	return layout.Base(data.PageData, markup.Func(func(_ context.Context, m *markup.Writer) {
		eventHeader(m, data.Event)
		m.Rawf(`<section class="registration-closed" data-status="%s"><h2>Registration Closed</h2><p>`, markup.Attr(string(data.Status)))
		if data.Status == model.RegistrationStatusPast {
			m.Raw(`This event has already taken place.`)
		} else {
			m.Raw(`Registration for this event is closed.`)
		}
		m.Raw(`</p><a href="/">See upcoming tournaments</a></section>`)
	}))
}
