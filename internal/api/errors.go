package api

import (
	"errors"
	"fmt"
)

// Failure kinds callers branch on. Unauthorized is handled globally (the
// client invalidates the session before returning it); the rest stay
// local to the caller.
var (
	ErrUnauthorized = errors.New("session expired")
	ErrForbidden    = errors.New("access denied")
	ErrTimeout      = errors.New("request timed out")
)

// StatusError carries a non-2xx response the server explained itself. The
// server's message, when present, is surfaced verbatim.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("server returned status %d", e.Status)
}

// UserMessage renders err for a notification: validation and server
// messages pass through, everything else gets the generic fallback.
func UserMessage(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}

	switch {
	case errors.Is(err, ErrTimeout):
		return "Request timed out. Please try again."
	case errors.Is(err, ErrForbidden):
		return "Access denied. Please check your permissions."
	}

	return fallback
}
