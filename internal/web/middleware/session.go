package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/wizard"
)

type contextKey string

const (
	wizardContextKey contextKey = "wizard"

	// SessionMaxAge is how long the browser keeps a wizard session cookie
	SessionMaxAge = 24 * time.Hour
)

// SessionCookieName returns the cookie holding an event's wizard session ID.
// Each event has its own cookie so registrations for different events don't collide.
func SessionCookieName(eventID model.EventID) string {
	return "wizard_" + string(eventID)
}

func sessionCookiePath(eventID model.EventID) string {
	return "/events/" + string(eventID)
}

// SetSessionCookie remembers the wizard session for its event
func SetSessionCookie(w http.ResponseWriter, wiz *model.Wizard) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName(wiz.EventID),
		Value:    string(wiz.ID),
		Path:     sessionCookiePath(wiz.EventID),
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie forgets the event's wizard session
func ClearSessionCookie(w http.ResponseWriter, eventID model.EventID) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName(eventID),
		Value:    "",
		Path:     sessionCookiePath(eventID),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LookupSession returns the request's wizard session for the event, or nil if
// there is none or it belongs to a different event
func LookupSession(r *http.Request, controller wizard.ControllerInterface, eventID model.EventID) *model.Wizard {
	cookie, err := r.Cookie(SessionCookieName(eventID))
	if err != nil || cookie.Value == "" {
		return nil
	}
	wiz, err := controller.Get(r.Context(), model.SessionID(cookie.Value))
	if err != nil || wiz.EventID != eventID {
		return nil
	}
	return wiz
}

// GetWizard retrieves the wizard session from the request context
// Returns nil if there is no session
func GetWizard(ctx context.Context) *model.Wizard {
	wiz, _ := ctx.Value(wizardContextKey).(*model.Wizard)
	return wiz
}

// Session returns middleware that requires a wizard session for the route's
// {eventID}. Requests without one are sent back to the registration page,
// which starts a new session.
func Session(controller wizard.ControllerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			eventID := model.EventID(mux.Vars(r)["eventID"])
			wiz := LookupSession(r, controller, eventID)
			if wiz == nil {
				Redirect(w, r, sessionCookiePath(eventID)+"/register")
				return
			}

			ctx := context.WithValue(r.Context(), wizardContextKey, wiz)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsHTMX returns true for requests issued by htmx
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect sends the browser to url: via HX-Redirect for htmx requests,
// otherwise with a 303
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
