package backend

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

// ErrorKind classifies why a backend call failed.
type ErrorKind int

const (
	// KindTransport means the request never produced a response.
	KindTransport ErrorKind = iota
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus
	// KindDecode means the response body was not the expected json.
	KindDecode
)

// String returns the kind name shown to users
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every failed Client call.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

// Error implements error
func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("backend %s error: status %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s error: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a backend error.
// ok is false when err does not carry an *Error.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var berr *Error
	if errors.As(err, &berr) {
		return berr.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, status int, cause error) *Error {
	return &Error{Kind: kind, StatusCode: status, Err: cause}
}
