package client

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned (wrapped in *Error) when the server rejects the
// session credential. The session has already been cleared when a caller
// sees it.
var ErrAuthExpired = errors.New("authentication expired")

// Error is the single normalized failure returned by every Client call.
// StatusCode is 0 for transport failures (timeout, connection refused).
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsStatus returns true if err (or any wrapped error) is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsAuthExpired reports whether err ended the session.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// Message returns the human-readable part of err: the normalized message for
// an *Error, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// Outcome is the tagged view of a call result.
type Outcome int

const (
	// OK means the call succeeded.
	OK Outcome = iota
	// AuthExpired means the server rejected the session and the store was cleared.
	AuthExpired
	// Failure is any other error, with a message from Message.
	Failure
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case AuthExpired:
		return "auth-expired"
	default:
		return "failure"
	}
}

// Classify maps a call's error to its Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OK
	case IsAuthExpired(err):
		return AuthExpired
	default:
		return Failure
	}
}
