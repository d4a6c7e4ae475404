package service

import "errors"

var (
	ErrEmptyBody     = errors.New("request body required")
	ErrInvalidJSON   = errors.New("invalid JSON")
	ErrInvalidWindow = errors.New("dateTo must be after dateFrom")
	ErrPartialWindow = errors.New("dateFrom and dateTo must be supplied together")
)

// IsValidationError reports whether err is a client-side input problem
// rather than an upstream failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyBody) ||
		errors.Is(err, ErrInvalidJSON) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrPartialWindow)
}
