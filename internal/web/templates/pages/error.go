package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/chessclub/internal/web/templates/layout"
	"github.com/mcoot/chessclub/internal/web/templates/markup"
)

// ErrorData is the data for error pages
type ErrorData struct {
	layout.PageData
	Heading string
	Message string
}

// Error renders a full-page error
func Error(data ErrorData) templ.Component {
	return layout.Base(data.PageData, markup.Func(func(_ context.Context, m *markup.Writer) {
		m.Raw(`<section class="error-page"><h1>`)
		m.Text(data.Heading)
		m.Raw(`</h1><p>`)
		m.Text(data.Message)
		m.Raw(`</p><a href="/">Return to home</a></section>`)
	}))
}
