package apierr

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mcoot/chessclub/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeEventNotFound        = "EVENT_NOT_FOUND"
	CodeSectionNotFound      = "SECTION_NOT_FOUND"
	CodeWizardNotFound       = "WIZARD_NOT_FOUND"
	CodeMemberNotFound       = "MEMBER_NOT_FOUND"
	CodeRegistrationClosed   = "REGISTRATION_CLOSED"
	CodeStepNotActive        = "STEP_NOT_ACTIVE"
	CodeStepLocked           = "STEP_LOCKED"
	CodeNoPlayerSelected     = "NO_PLAYER_SELECTED"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeInvalidNotification  = "INVALID_NOTIFICATION_PREFERENCE"
	CodeInvalidRound         = "INVALID_ROUND"
	CodeTermsNotAccepted     = "TERMS_NOT_ACCEPTED"
	CodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	CodeAlreadySubmitted     = "ALREADY_SUBMITTED"
	CodeInvalidRegistration  = "INVALID_REGISTRATION"
	CodeQueryTooShort        = "QUERY_TOO_SHORT"
	CodeLookupUnavailable    = "LOOKUP_UNAVAILABLE"
	CodeRegistrationNotFound = "REGISTRATION_NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Lookups
	case errors.Is(err, model.ErrEventNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEventNotFound, "Event not found"}}
	case errors.Is(err, model.ErrSectionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSectionNotFound, "Section not found for this event"}}
	case errors.Is(err, model.ErrWizardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeWizardNotFound, "Registration session not found"}}
	case errors.Is(err, model.ErrMemberNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMemberNotFound, "Member not found"}}
	case errors.Is(err, model.ErrRegistrationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRegistrationNotFound, "Registration not found"}}

	// Wizard state
	case errors.Is(err, model.ErrRegistrationClosed):
		return &httpError{http.StatusConflict, APIError{CodeRegistrationClosed, "Registration for this event is closed"}}
	case errors.Is(err, model.ErrStepNotActive):
		return &httpError{http.StatusConflict, APIError{CodeStepNotActive, "That step is not active"}}
	case errors.Is(err, model.ErrStepLocked):
		return &httpError{http.StatusConflict, APIError{CodeStepLocked, "Earlier steps must be completed first"}}
	case errors.Is(err, model.ErrNoPlayerSelected):
		return &httpError{http.StatusConflict, APIError{CodeNoPlayerSelected, "No player has been selected"}}
	case errors.Is(err, model.ErrSubmissionInProgress):
		return &httpError{http.StatusConflict, APIError{CodeSubmissionInProgress, "Registration is already being submitted"}}
	case errors.Is(err, model.ErrAlreadySubmitted):
		return &httpError{http.StatusConflict, APIError{CodeAlreadySubmitted, "Registration has already been submitted"}}

	// Validation
	case errors.Is(err, model.ErrInvalidEmail):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidEmail, "Please enter a valid email address"}}
	case errors.Is(err, model.ErrInvalidNotificationPreference):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidNotification, "Notification preference must be email, text, both or none"}}
	case errors.Is(err, model.ErrInvalidRound):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidRound, "Round is not part of this event"}}
	case errors.Is(err, model.ErrTermsNotAccepted):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeTermsNotAccepted, "Tournament terms must be accepted"}}
	case errors.Is(err, model.ErrInvalidRegistration):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidRegistration, "Registration is incomplete"}}
	case errors.Is(err, model.ErrQueryTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodeQueryTooShort, "Search query must be at least 2 characters"}}

	// Player directory
	case errors.Is(err, model.ErrLookupUnavailable), errors.Is(err, model.ErrDirectoryNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeLookupUnavailable, "Player lookup is temporarily unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
