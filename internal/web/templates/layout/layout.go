// Package layout holds the page shell shared by every page.
package layout

import (
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/chessclub/internal/web/templates/markup"
)

// FlashMessage is a one-time message carried across a redirect
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is common to all pages
type PageData struct {
	Title string
	Flash *FlashMessage
}

const scrollScript = `<script>
document.body.addEventListener("scrollToStep", function (evt) {
  var el = document.getElementById("step-" + evt.detail.step);
  if (el) { el.scrollIntoView({behavior: "smooth", block: "start"}); }
});
</script>`

// Base renders the document around the page body
func Base(data PageData, body templ.Component) templ.Component {
	return markup.Func(func(ctx context.Context, m *markup.Writer) {
		m.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if data.Title != "" {
			m.Text(data.Title)
			m.Raw(` | `)
		}
		m.Raw(`Chess Club</title>`)
		m.Raw(`<link rel="stylesheet" href="/static/css/style.css">`)
		m.Raw(`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`)
		m.Raw(`<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>`)
		m.Raw(`</head><body><header class="site-header"><a href="/" class="site-title">Chess Club</a></header>`)
		m.Raw(`<main class="container">`)
		m.Component(ctx, Flash(data.Flash))
		m.Component(ctx, body)
		m.Raw(`</main>`)
		m.Raw(scrollScript)
		m.Raw(`</body></html>`)
	})
}

// Flash renders a flash message, or nothing
func Flash(f *FlashMessage) templ.Component {
	return markup.Func(func(_ context.Context, m *markup.Writer) {
		if f == nil || f.Message == "" {
			return
		}
		m.Raw(`<div class="flash flash-`)
		m.Text(f.Type)
		m.Raw(`" role="status">`)
		m.Text(f.Message)
		m.Raw(`</div>`)
	})
}
