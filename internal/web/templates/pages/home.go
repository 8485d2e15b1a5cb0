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

// HomeData is the data for the home page
type HomeData struct {
	layout.PageData
	Events []*model.Event
}

// Home lists upcoming tournaments
func Home(data HomeData) templ.Component {
	return layout.Base(data.PageData, markup.Func(func(_ context.Context, m *markup.Writer) {
		m.Raw(`<h1>Upcoming Tournaments</h1>`)
		if len(data.Events) == 0 {
			m.Raw(`<p class="empty">No upcoming tournaments. Check back soon!</p>`)
			return
		}
		m.Raw(`<ul class="events">`)
		for _, e := range data.Events {
			m.Raw(`<li class="event" data-event-id="`)
			m.Text(string(e.ID))
			m.Raw(`"><h2>`)
			m.Text(e.Title)
			m.Raw(`</h2><p class="event-date">`)
			m.Text(format.EventDate(e.EventDate))
			m.Raw(`</p>`)
			if e.Location != "" {
				m.Raw(`<p class="event-location">`)
				m.Text(e.Location)
				m.Raw(`</p>`)
			}
			if e.EntryFee != "" {
				m.Raw(`<p class="event-fee">Entry fee: `)
				m.Text(e.EntryFee)
				m.Raw(`</p>`)
			}
			m.Raw(`<a class="btn btn-primary" href="`)
			m.Text(components.RegisterPath(e.ID))
			m.Raw(`">Register</a></li>`)
		}
		m.Raw(`</ul>`)
	}))
}
