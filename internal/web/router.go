package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/services/events"
	"github.com/mcoot/chessclub/internal/services/terms"
	"github.com/mcoot/chessclub/internal/services/wizard"
	"github.com/mcoot/chessclub/internal/web/handler"
	"github.com/mcoot/chessclub/internal/web/middleware"
	"github.com/mcoot/chessclub/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	EventService     *events.Service
	WizardController wizard.ControllerInterface
	TermsRenderer    *terms.Renderer
	HubManager       *sse.HubManager
	StaticDir        string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.WizardController)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}
	termsRenderer := cfg.TermsRenderer
	if termsRenderer == nil {
		termsRenderer = terms.NewRenderer()
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.EventService, cfg.Logger)
	registerHandler := handler.NewRegisterHandler(cfg.EventService, cfg.WizardController, termsRenderer, hubManager, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Pages
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/events/{eventID}/register", registerHandler.View).Methods(http.MethodGet)
	public.HandleFunc("/events/{eventID}/register/restart", registerHandler.Restart).Methods(http.MethodPost)

	// Wizard actions (require a session)
	wiz := r.PathPrefix("/events/{eventID}/register").Subrouter()
	wiz.Use(sessionMiddleware)
	wiz.HandleFunc("/stream", registerHandler.Stream).Methods(http.MethodGet)
	wiz.HandleFunc("/search", registerHandler.Search).Methods(http.MethodPost)
	wiz.HandleFunc("/player", registerHandler.SelectPlayer).Methods(http.MethodPost)
	wiz.HandleFunc("/player/clear", registerHandler.ClearPlayer).Methods(http.MethodPost)
	wiz.HandleFunc("/contact", registerHandler.Contact).Methods(http.MethodPost)
	wiz.HandleFunc("/section", registerHandler.Section).Methods(http.MethodPost)
	wiz.HandleFunc("/byes/continue", registerHandler.ContinueByes).Methods(http.MethodPost)
	wiz.HandleFunc("/byes/{round:[0-9]+}", registerHandler.ToggleBye).Methods(http.MethodPost)
	wiz.HandleFunc("/terms", registerHandler.Terms).Methods(http.MethodPost)
	wiz.HandleFunc("/submit", registerHandler.Submit).Methods(http.MethodPost)
	wiz.HandleFunc("/steps/{step:[0-9]+}/edit", registerHandler.Reopen).Methods(http.MethodPost)

	r.NotFoundHandler = flashMiddleware(http.HandlerFunc(handler.NotFound))

	return r
}
