package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/api/response"
	"github.com/mcoot/chessclub/internal/services/ratings"
)

// PlayerHandler proxies the federation member directory
type PlayerHandler struct {
	directory ratings.Directory
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(directory ratings.Directory) *PlayerHandler {
	return &PlayerHandler{directory: directory}
}

// Search handles GET /api/v1/players?query=
func (h *PlayerHandler) Search(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.directory.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CandidatesFromModel(candidates))
}

// Get handles GET /api/v1/players/{memberID}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.directory.Lookup(r.Context(), mux.Vars(r)["memberID"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CandidateFromModel(candidate))
}
