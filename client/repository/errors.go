package repository

import (
	"errors"

	"rently-backend/client/api"
)

// Error is the only error type repository methods return. Message is a short
// human-readable string suitable for direct display; callers never see raw
// transport or database errors.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(message string) *Error {
	return &Error{Message: message}
}

// apiError converts a remote client failure into a repository error, keeping
// the server's message when there is one.
func apiError(err error, fallback string) *Error {
	var remote *api.Error
	if errors.As(err, &remote) && remote.StatusCode != 0 && remote.Message != "" {
		return &Error{Message: remote.Message}
	}
	return &Error{Message: fallback}
}
