package server

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared between the core and its Driver. Drivers
// must translate transport-level conditions into these values so the
// connection loop can map them to responses.
var (
	// ErrClosed is returned by Listen once the server has been closed.
	ErrClosed = errors.New("server: already closed")

	// ErrTimeout marks a bounded read/write/handshake that expired.
	ErrTimeout = errors.New("server: timeout")

	// ErrInvalidHeaderValue marks a header field with an illegal value.
	ErrInvalidHeaderValue = errors.New("server: invalid header value")

	// ErrParse marks a request the driver could not parse at all.
	ErrParse = errors.New("server: parse failure")
)

// MalformedMessageError is a structural fault in an inbound message
// that carries the status code the peer should receive.
type MalformedMessageError struct {
	Status int
	Reason string
}

func (e *MalformedMessageError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("server: malformed message (%d)", e.Status)
	}
	return fmt.Sprintf("server: malformed message (%d): %s", e.Status, e.Reason)
}
