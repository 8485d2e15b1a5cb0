package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/terms"
	"github.com/mcoot/chessclub/internal/services/wizard"
	"github.com/mcoot/chessclub/internal/web/middleware"
	"github.com/mcoot/chessclub/internal/web/sse"
	"github.com/mcoot/chessclub/internal/web/templates/components"
	"github.com/mcoot/chessclub/internal/web/templates/layout"
	"github.com/mcoot/chessclub/internal/web/templates/pages"
)

const genericErrorMessage = "Something went wrong. Please try again."

// RegisterHandler handles the registration wizard pages and actions
type RegisterHandler struct {
	events     *events.Service
	controller wizard.ControllerInterface
	terms      *terms.Renderer
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(eventService *events.Service, controller wizard.ControllerInterface, termsRenderer *terms.Renderer, hubManager *sse.HubManager, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		events:     eventService,
		controller: controller,
		terms:      termsRenderer,
		hubManager: hubManager,
		logger:     logger,
	}
}

// View renders the registration page. Closed events get the closed page;
// otherwise the session from the event's cookie is resumed, or a new one started.
// htmx requests receive just the wizard fragment.
func (h *RegisterHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := model.EventID(mux.Vars(r)["eventID"])

	details, err := h.events.Load(ctx, eventID)
	if errors.Is(err, model.ErrEventNotFound) || (err == nil && !details.Event.IsActive) {
		renderError(w, r, http.StatusNotFound, "Event Not Found", "We couldn't find that tournament.")
		return
	}
	if err != nil {
		h.logger.Error("failed to load event", slog.String("event_id", string(eventID)), slog.String("error", err.Error()))
		renderError(w, r, http.StatusInternalServerError, "Something Went Wrong", genericErrorMessage)
		return
	}

	wiz := middleware.LookupSession(r, h.controller, eventID)
	submitted := wiz != nil && wiz.IsSubmitted()
	if details.Status != model.RegistrationStatusOpen && !submitted {
		h.renderClosed(w, r, details)
		return
	}

	if wiz == nil {
		wiz, err = h.controller.Start(ctx, eventID)
		if events.IsClosed(err) {
			h.renderClosed(w, r, details)
			return
		}
		if err != nil {
			h.logger.Error("failed to start registration", slog.String("event_id", string(eventID)), slog.String("error", err.Error()))
			renderError(w, r, http.StatusInternalServerError, "Something Went Wrong", genericErrorMessage)
			return
		}
		middleware.SetSessionCookie(w, wiz)
	}

	view := h.view(details, wiz, "")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if middleware.IsHTMX(r) {
		if err := components.Wizard(view).Render(ctx, w); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	data := pages.RegisterData{
		PageData: layout.PageData{
			Title: "Register: " + details.Event.Title,
			Flash: middleware.GetFlash(ctx),
		},
		View: view,
	}
	if err := pages.Register(data).Render(ctx, w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *RegisterHandler) renderClosed(w http.ResponseWriter, r *http.Request, details *events.Details) {
	if middleware.IsHTMX(r) {
		middleware.Redirect(w, r, components.RegisterPath(details.Event.ID))
		return
	}
	data := pages.ClosedData{
		PageData: layout.PageData{
			Title: details.Event.Title,
			Flash: middleware.GetFlash(r.Context()),
		},
		Event:  details.Event,
		Status: details.Status,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.RegistrationClosed(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Stream serves the session's event stream
func (h *RegisterHandler) Stream(w http.ResponseWriter, r *http.Request) {
	wiz := middleware.GetWizard(r.Context())
	hub := h.hubManager.GetOrCreateHub(wiz.ID)
	sse.ServeSSE(w, r, hub)
}

// Search records a keystroke in the player search and renders the search status
func (h *RegisterHandler) Search(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	after, err := h.controller.Search(r.Context(), before.ID, r.FormValue("query"))
	if err != nil || !middleware.IsHTMX(r) {
		if middleware.IsHTMX(r) {
			w.Header().Set("HX-Retarget", "#wizard")
		}
		h.respond(w, r, before, after, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.SearchResults(after, false).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// SelectPlayer chooses a candidate as the registering player
func (h *RegisterHandler) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	after, err := h.controller.SelectCandidate(r.Context(), before.ID, r.FormValue("member_id"))
	h.respond(w, r, before, after, err)
}

// ClearPlayer discards the chosen player and everything entered after it
func (h *RegisterHandler) ClearPlayer(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	after, err := h.controller.ClearPlayer(r.Context(), before.ID)
	h.respond(w, r, before, after, err)
}

// Contact submits the contact step
func (h *RegisterHandler) Contact(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	pref, err := model.ParseNotificationPreference(r.FormValue("notification_preference"))
	if err != nil {
		h.respond(w, r, before, nil, err)
		return
	}
	contact := model.Contact{
		Email: r.FormValue("email"),
		Phone: r.FormValue("phone"),
		Address: model.Address{
			Street: r.FormValue("street"),
			City:   r.FormValue("city"),
			State:  r.FormValue("state"),
			Zip:    r.FormValue("zip"),
		},
		NotificationPreference: pref,
	}
	after, err := h.controller.SubmitContact(r.Context(), before.ID, contact)
	h.respond(w, r, before, after, err)
}

// Section chooses a section
func (h *RegisterHandler) Section(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	after, err := h.controller.SelectSection(r.Context(), before.ID, model.SectionID(r.FormValue("section_id")))
	h.respond(w, r, before, after, err)
}

// ToggleBye adds or removes a bye request for the round in the path
func (h *RegisterHandler) ToggleBye(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	round, err := strconv.Atoi(mux.Vars(r)["round"])
	if err != nil {
		h.respond(w, r, before, nil, model.ErrInvalidRound)
		return
	}
	after, err := h.controller.ToggleBye(r.Context(), before.ID, round)
	h.respond(w, r, before, after, err)
}

// ContinueByes completes the bye step
func (h *RegisterHandler) ContinueByes(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	after, err := h.controller.ContinueByes(r.Context(), before.ID)
	h.respond(w, r, before, after, err)
}

// Terms records the terms checkbox
func (h *RegisterHandler) Terms(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	accepted := r.FormValue("accepted")
	after, err := h.controller.SetTermsAccepted(r.Context(), before.ID, accepted == "true" || accepted == "on")
	h.respond(w, r, before, after, err)
}

// Submit completes the registration
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	after, err := h.controller.Submit(r.Context(), before.ID)
	h.respond(w, r, before, after, err)
}

// Reopen makes a collapsed step editable again
func (h *RegisterHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	before := middleware.GetWizard(r.Context())
	step, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil {
		h.respond(w, r, before, nil, model.ErrStepLocked)
		return
	}
	after, err := h.controller.Reopen(r.Context(), before.ID, model.Step(step))
	h.respond(w, r, before, after, err)
}

// Restart forgets the session so a new registration can begin
func (h *RegisterHandler) Restart(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["eventID"])
	middleware.ClearSessionCookie(w, eventID)
	middleware.Redirect(w, r, components.RegisterPath(eventID))
}

// respond renders the outcome of a wizard action: the wizard fragment for
// htmx, otherwise a redirect back to the registration page
func (h *RegisterHandler) respond(w http.ResponseWriter, r *http.Request, before, after *model.Wizard, actionErr error) {
	ctx := r.Context()
	registerPath := components.RegisterPath(before.EventID)

	msg := ""
	if actionErr != nil {
		if errors.Is(actionErr, model.ErrWizardNotFound) {
			middleware.Redirect(w, r, registerPath)
			return
		}
		msg = userMessage(actionErr)

		reloaded, err := h.controller.Get(ctx, before.ID)
		if err != nil {
			middleware.Redirect(w, r, registerPath)
			return
		}
		after = reloaded

		// Submission failures are reported through the session's submit error
		if msg == "" && after.SubmitError == "" && !after.IsSubmitted() {
			h.logger.Error("registration action failed",
				slog.String("session_id", string(before.ID)),
				slog.String("error", actionErr.Error()))
			msg = genericErrorMessage
		}
	}

	if !middleware.IsHTMX(r) {
		if msg != "" {
			middleware.SetFlash(w, "error", msg)
		}
		http.Redirect(w, r, registerPath, http.StatusSeeOther)
		return
	}

	details, err := h.events.Load(ctx, after.EventID)
	if err != nil {
		h.logger.Error("failed to load event", slog.String("event_id", string(after.EventID)), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if msg == "" && after.Step != before.Step && after.Step.Valid() {
		w.Header().Set("HX-Trigger-After-Settle", fmt.Sprintf(`{"scrollToStep":{"step":%d}}`, after.Step))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Wizard(h.view(details, after, msg)).Render(ctx, w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *RegisterHandler) view(details *events.Details, wiz *model.Wizard, msg string) components.WizardView {
	v := components.WizardView{
		Wizard:   wiz,
		Event:    details.Event,
		Sections: details.Sections,
		Error:    msg,
	}
	if wiz.IsActive(model.StepTerms) {
		html, err := h.terms.Render(details.Event.Terms)
		if err != nil {
			h.logger.Warn("failed to render terms", slog.String("event_id", string(details.Event.ID)), slog.String("error", err.Error()))
		}
		v.TermsHTML = html
	}
	return v
}

// userMessage returns the message shown for an expected failure, or "" for
// anything else
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, model.ErrInvalidNotificationPreference):
		return "Please choose how you'd like to be notified."
	case errors.Is(err, model.ErrInvalidRound):
		return "That round is not part of this event."
	case errors.Is(err, model.ErrTermsNotAccepted):
		return "Please accept the tournament terms to continue."
	case errors.Is(err, model.ErrMemberNotFound):
		return "We couldn't find that USCF member. Please search again."
	case errors.Is(err, model.ErrSectionNotFound):
		return "That section is not available for this event."
	case errors.Is(err, model.ErrStepLocked):
		return "Please complete the earlier steps first."
	case errors.Is(err, model.ErrStepNotActive):
		return "That step is not open for editing."
	case errors.Is(err, model.ErrNoPlayerSelected):
		return "Please select a player first."
	case errors.Is(err, model.ErrSubmissionInProgress):
		return "Your registration is already being submitted."
	case errors.Is(err, model.ErrLookupUnavailable):
		return "Player lookup is temporarily unavailable. Please try again."
	default:
		return ""
	}
}
