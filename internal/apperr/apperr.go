// Package apperr classifies the expected, caller-recoverable failure
// modes of the assessment core. Anything without a Kind is treated as an
// infrastructure failure and surfaced opaquely.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: malformed input the client can fix 1:1.
	KindValidation
	// KindPrecondition: valid input against the wrong system state.
	KindPrecondition
	// KindConflict: state already satisfies or contradicts the request.
	KindConflict
	// KindExpired: a time-bounded artifact lapsed.
	KindExpired
	// KindRateLimit: too-frequent retries.
	KindRateLimit
	// KindNotFound: referenced entity absent.
	KindNotFound
	// KindExhausted: a bounded retry budget ran out.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	case KindExpired:
		return "expired"
	case KindRateLimit:
		return "rate_limit"
	case KindNotFound:
		return "not_found"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Error carries a kind plus a caller-facing message. The message is safe
// to return to clients; wrapped causes are for logs only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the caller-facing message of err, falling back to a
// generic one for unclassified errors so internals never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
