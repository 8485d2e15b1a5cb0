package model

import "errors"

// Common errors used across the application
var (
	// Event errors
	ErrEventNotFound      = errors.New("event not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrRegistrationClosed = errors.New("registration is closed for this event")

	// Wizard errors
	ErrWizardNotFound                = errors.New("registration session not found")
	ErrStepNotActive                 = errors.New("step is not active")
	ErrStepLocked                    = errors.New("step cannot be opened until earlier steps are complete")
	ErrNoPlayerSelected              = errors.New("no player selected")
	ErrInvalidEmail                  = errors.New("email must contain @ and .")
	ErrInvalidNotificationPreference = errors.New("invalid notification preference")
	ErrInvalidRound                  = errors.New("invalid bye round")
	ErrTermsNotAccepted              = errors.New("tournament terms must be accepted")
	ErrSubmissionInProgress          = errors.New("registration is already being submitted")
	ErrAlreadySubmitted              = errors.New("registration has already been submitted")

	// Registration errors
	ErrInvalidRegistration  = errors.New("invalid registration")
	ErrRegistrationNotFound = errors.New("registration not found")

	// Player lookup errors
	ErrMemberNotFound     = errors.New("member not found")
	ErrQueryTooShort      = errors.New("search query must be at least 2 characters")
	ErrLookupUnavailable  = errors.New("player lookup service unavailable")
	ErrDirectoryNotLoaded = errors.New("member directory not loaded")
)
