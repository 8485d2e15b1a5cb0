package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/api/handler"
	"github.com/mcoot/chessclub/internal/api/middleware"
	"github.com/mcoot/chessclub/internal/api/response"
	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/ratings"
	"github.com/mcoot/chessclub/internal/services/registration"
	"github.com/mcoot/chessclub/internal/services/wizard"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	EventService        *events.Service
	RegistrationService *registration.Service
	WizardController    wizard.ControllerInterface
	Directory           ratings.Directory
	AllowedOrigins      []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	eventHandler := handler.NewEventHandler(cfg.EventService, cfg.RegistrationService)
	wizardHandler := handler.NewWizardHandler(cfg.WizardController)
	playerHandler := handler.NewPlayerHandler(cfg.Directory)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Events
	api.HandleFunc("/events", eventHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventID}", eventHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventID}/registrations", eventHandler.Registrations).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventID}/wizards", wizardHandler.Start).Methods(http.MethodPost)

	// Registration sessions
	wizards := api.PathPrefix("/wizards/{wizardID}").Subrouter()
	wizards.HandleFunc("", wizardHandler.Get).Methods(http.MethodGet)
	wizards.HandleFunc("/search", wizardHandler.Search).Methods(http.MethodPost)
	wizards.HandleFunc("/player", wizardHandler.SelectPlayer).Methods(http.MethodPost)
	wizards.HandleFunc("/player", wizardHandler.ClearPlayer).Methods(http.MethodDelete)
	wizards.HandleFunc("/contact", wizardHandler.Contact).Methods(http.MethodPut)
	wizards.HandleFunc("/section", wizardHandler.Section).Methods(http.MethodPut)
	wizards.HandleFunc("/byes/continue", wizardHandler.ContinueByes).Methods(http.MethodPost)
	wizards.HandleFunc("/byes/{round:[0-9]+}", wizardHandler.ToggleBye).Methods(http.MethodPost)
	wizards.HandleFunc("/terms", wizardHandler.Terms).Methods(http.MethodPut)
	wizards.HandleFunc("/submit", wizardHandler.Submit).Methods(http.MethodPost)
	wizards.HandleFunc("/steps/{step:[0-9]+}/edit", wizardHandler.Reopen).Methods(http.MethodPost)

	// Player directory
	api.HandleFunc("/players", playerHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/players/{memberID}", playerHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Preflight requests never reach a route, so CORS wraps the router
	return middleware.CORS(cfg.AllowedOrigins)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
