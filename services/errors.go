package services

import "errors"

var (
	ErrValidationFailed = errors.New("validation failed")

	ErrTournamentNotFound = errors.New("tournament not found")

	ErrAlreadyRegistered = errors.New("user is already registered for this tournament")
	ErrNotRegistered     = errors.New("user is not registered for this tournament")
	ErrVersionConflict   = errors.New("tournament was changed by another request, reload and try again")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
)
