package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPositionNotAvailable   = errors.New("no position recorded")
	ErrInvalidPosition        = errors.New("invalid position")
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
	ErrGeolocationFailed      = errors.New("geolocation failed")
	ErrBoundsUnavailable      = errors.New("viewport bounds unavailable")
	ErrSearchFailed           = errors.New("search failed")
	ErrStateNotFound          = errors.New("state key not found")
)

// User-visible messages surfaced by the presentation layer.
const (
	MsgGeolocationUnavailable = "Your browser does not support getting geo location!"
	MsgGeolocationFailed      = "Failed to load geo location!"
	MsgSearchNetwork          = "Failed to load posts: network error"
	MsgSearchMalformed        = "Failed to load posts: unexpected response"
)

// ErrMalformedResponse marks a 2xx backend response whose body could not be decoded.
var ErrMalformedResponse = errors.New("malformed backend response")

// RemoteError is a non-2xx response from the backend. Message holds the
// server-provided text, if any.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Message)
}
