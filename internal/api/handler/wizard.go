package handler

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/api/request"
	"github.com/mcoot/chessclub/internal/api/response"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/wizard"
)

// WizardHandler drives registration sessions over JSON
type WizardHandler struct {
	controller wizard.ControllerInterface
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(controller wizard.ControllerInterface) *WizardHandler {
	return &WizardHandler{controller: controller}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["wizardID"])
}

// decode reads a JSON request body into v
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("Invalid request body")
	}
	return nil
}

// writeWizard writes the session, or the error that produced it
func writeWizard(w http.ResponseWriter, wiz *model.Wizard, err error, status int) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.WizardFromModel(wiz))
}

// Start handles POST /api/v1/events/{eventID}/wizards
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["eventID"])
	wiz, err := h.controller.Start(r.Context(), eventID)
	writeWizard(w, wiz, err, http.StatusCreated)
}

// Get handles GET /api/v1/wizards/{wizardID}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.controller.Get(r.Context(), sessionID(r))
	writeWizard(w, wiz, err, http.StatusOK)
}

// Search handles POST /api/v1/wizards/{wizardID}/search.
// Results arrive once the search settles; poll the session to read them.
func (h *WizardHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req request.SearchRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	wiz, err := h.controller.Search(r.Context(), sessionID(r), req.Query)
	writeWizard(w, wiz, err, http.StatusAccepted)
}

// SelectPlayer handles POST /api/v1/wizards/{wizardID}/player
func (h *WizardHandler) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	var req request.SelectPlayerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.MemberID == "" {
		WriteError(w, NewInvalidRequestError("member_id is required"))
		return
	}
	wiz, err := h.controller.SelectCandidate(r.Context(), sessionID(r), req.MemberID)
	writeWizard(w, wiz, err, http.StatusOK)
}

// ClearPlayer handles DELETE /api/v1/wizards/{wizardID}/player
func (h *WizardHandler) ClearPlayer(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.controller.ClearPlayer(r.Context(), sessionID(r))
	writeWizard(w, wiz, err, http.StatusOK)
}

// Contact handles PUT /api/v1/wizards/{wizardID}/contact
func (h *WizardHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	contact := model.Contact{
		Email: req.Email,
		Phone: req.Phone,
		Address: model.Address{
			Street: req.Street,
			City:   req.City,
			State:  req.State,
			Zip:    req.Zip,
		},
		NotificationPreference: model.NotificationPreference(req.NotificationPreference),
	}
	wiz, err := h.controller.SubmitContact(r.Context(), sessionID(r), contact)
	writeWizard(w, wiz, err, http.StatusOK)
}

// Section handles PUT /api/v1/wizards/{wizardID}/section
func (h *WizardHandler) Section(w http.ResponseWriter, r *http.Request) {
	var req request.SectionRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	wiz, err := h.controller.SelectSection(r.Context(), sessionID(r), model.SectionID(req.SectionID))
	writeWizard(w, wiz, err, http.StatusOK)
}

// ToggleBye handles POST /api/v1/wizards/{wizardID}/byes/{round}
func (h *WizardHandler) ToggleBye(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(mux.Vars(r)["round"])
	if err != nil {
		WriteError(w, model.ErrInvalidRound)
		return
	}
	wiz, err := h.controller.ToggleBye(r.Context(), sessionID(r), round)
	writeWizard(w, wiz, err, http.StatusOK)
}

// ContinueByes handles POST /api/v1/wizards/{wizardID}/byes/continue
func (h *WizardHandler) ContinueByes(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.controller.ContinueByes(r.Context(), sessionID(r))
	writeWizard(w, wiz, err, http.StatusOK)
}

// Terms handles PUT /api/v1/wizards/{wizardID}/terms
func (h *WizardHandler) Terms(w http.ResponseWriter, r *http.Request) {
	var req request.TermsRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	wiz, err := h.controller.SetTermsAccepted(r.Context(), sessionID(r), req.Accepted)
	writeWizard(w, wiz, err, http.StatusOK)
}

// Submit handles POST /api/v1/wizards/{wizardID}/submit
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.controller.Submit(r.Context(), sessionID(r))
	writeWizard(w, wiz, err, http.StatusOK)
}

// Reopen handles POST /api/v1/wizards/{wizardID}/steps/{step}/edit
func (h *WizardHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("step must be a number"))
		return
	}
	wiz, err := h.controller.Reopen(r.Context(), sessionID(r), model.Step(step))
	writeWizard(w, wiz, err, http.StatusOK)
}
