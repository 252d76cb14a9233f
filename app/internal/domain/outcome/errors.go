package outcome

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrRejected        = errors.New("upstream rejected the request")
	ErrTransport       = errors.New("upstream unreachable")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrDiscarded       = errors.New("result discarded after session change")
)

// Error carries the failure kind together with the message shown to the user.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Rejected(status int, message string) *Error {
	return &Error{Kind: ErrRejected, Status: status, Message: message}
}

func AuthRequired(message string) *Error {
	return &Error{Kind: ErrAuthRequired, Status: 401, Message: message}
}

func Transport(err error) *Error {
	return &Error{Kind: ErrTransport, Message: "something went wrong", Err: err}
}

// Message returns the human readable part of err, falling back to err.Error().
func Message(err error) string {
	var oe *Error
	if errors.As(err, &oe) && oe.Message != "" {
		return oe.Message
	}
	return err.Error()
}

// StatusOf returns the upstream HTTP status recorded on err, or 0.
func StatusOf(err error) int {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Status
	}
	return 0
}
