package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so the terminal front end can pick an alert title and
// message without knowing which backend produced the failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrRejected   = errors.New("rejected by portal")
	ErrTransport  = errors.New("transport failure")
	ErrBusy       = errors.New("request already in flight")
)

// Generic messages shown to the user.
const (
	MsgNetworkError = "Network error. Please try again."
	MsgBusy         = "Please wait for the current request to finish."
)

// Error carries a user-facing message alongside the error kind it belongs to.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Is reports whether target is the kind of this error, so callers can
// errors.Is(err, domain.ErrValidation) regardless of the wrapped cause.
func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: ErrValidation, Msg: msg} }

func Rejected(msg string) error { return &Error{Kind: ErrRejected, Msg: msg} }

func Transport(err error) error {
	return &Error{Kind: ErrTransport, Msg: MsgNetworkError, Err: err}
}

// Message returns the text to show the user for err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	if errors.Is(err, ErrBusy) {
		return MsgBusy
	}
	return MsgNetworkError
}
