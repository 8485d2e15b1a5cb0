package handler

import (
	"net/http"

	"github.com/mcoot/chessclub/internal/web/middleware"
	"github.com/mcoot/chessclub/internal/web/templates/layout"
	"github.com/mcoot/chessclub/internal/web/templates/pages"
)

// NotFound renders the not found page
func NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page Not Found", "The page you were looking for doesn't exist.")
}

func renderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	data := pages.ErrorData{
		PageData: layout.PageData{
			Title: heading,
			Flash: middleware.GetFlash(r.Context()),
		},
		Heading: heading,
		Message: message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.Error(data).Render(r.Context(), w)
}
