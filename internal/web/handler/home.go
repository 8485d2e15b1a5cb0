package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/web/middleware"
	"github.com/mcoot/chessclub/internal/web/templates/layout"
	"github.com/mcoot/chessclub/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	events *events.Service
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(eventService *events.Service, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{events: eventService, logger: logger}
}

// Home renders the upcoming tournaments
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	upcoming, err := h.events.ListUpcoming(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", slog.String("error", err.Error()))
		renderError(w, r, http.StatusInternalServerError, "Something Went Wrong", "We couldn't load the tournament list. Please try again later.")
		return
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Tournaments",
			Flash: middleware.GetFlash(r.Context()),
		},
		Events: upcoming,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
