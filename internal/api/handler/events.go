package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/api/response"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/registration"
)

// EventHandler handles event and registration listing endpoints
type EventHandler struct {
	events        *events.Service
	registrations *registration.Service
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *events.Service, registrationService *registration.Service) *EventHandler {
	return &EventHandler{
		events:        eventService,
		registrations: registrationService,
	}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	upcoming, err := h.events.ListUpcoming(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Event, len(upcoming))
	for i, e := range upcoming {
		resp[i] = response.EventFromModel(e, h.events.RegistrationStatus(e))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/events/{eventID}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["eventID"])

	details, err := h.events.Load(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EventDetailFromModel(details.Event, details.Sections, details.Status))
}

// Registrations handles GET /api/v1/events/{eventID}/registrations
func (h *EventHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["eventID"])

	regs, err := h.registrations.ListForEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Registration, len(regs))
	for i, reg := range regs {
		resp[i] = response.RegistrationFromModel(reg)
	}
	response.JSON(w, http.StatusOK, resp)
}
