package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the request never produced a server verdict:
	// the host is unreachable, the connection dropped, or the call timed out.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned on 401 from an authenticated request.
	// Flows do not handle it; the session layer reacts with logout.
	ErrUnauthorized = errors.New("unauthorized")
)

// RejectError is a failure reported by the server itself: a non-2xx status
// or a 2xx body with success=false. Message carries the server-supplied
// human-readable text when present.
type RejectError struct {
	StatusCode int
	Message    string
}

func (e *RejectError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rejected by server: %s", e.Message)
	}
	return fmt.Sprintf("rejected by server (status %d)", e.StatusCode)
}

const (
	genericFailureMessage = "An error occurred. Please try again."
	unreachableMessage    = "Cannot reach the server. Please try again."
	signedOutMessage      = "You are no longer signed in."
)

// ErrorMessage converts a gateway error into the text shown to the user:
// the verbatim server message for rejections when one was supplied,
// otherwise a generic fallback.
func ErrorMessage(err error) string {
	var rej *RejectError
	switch {
	case errors.As(err, &rej):
		if rej.Message != "" {
			return rej.Message
		}
		return genericFailureMessage
	case errors.Is(err, ErrUnavailable):
		return unreachableMessage
	case errors.Is(err, ErrUnauthorized):
		return signedOutMessage
	default:
		return genericFailureMessage
	}
}
