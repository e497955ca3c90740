package fetch

import (
	"errors"
	"fmt"

	"github.com/blockandplay/explorer/pkg/client"
)

// ErrorKind tells a view why a fetch failed.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindUpstream  ErrorKind = "upstream"
	KindDecode    ErrorKind = "decode"
	// KindPanic means the request function panicked.
	KindPanic   ErrorKind = "panic"
	KindUnknown ErrorKind = "unknown"
)

// Error is the single error value a controller exposes after a failed fetch.
type Error struct {
	Kind ErrorKind
	// StatusCode is set for upstream failures.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failure (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// normalize folds any request error into *Error.
func normalize(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	var ce *client.Error
	if errors.As(err, &ce) {
		out := &Error{Err: err, StatusCode: ce.StatusCode}
		switch ce.Class {
		case client.ErrorClassTransport:
			out.Kind = KindTransport
		case client.ErrorClassUpstream:
			out.Kind = KindUpstream
		case client.ErrorClassDecode:
			out.Kind = KindDecode
		default:
			out.Kind = KindUnknown
		}
		if out.Kind != KindUpstream {
			out.StatusCode = 0
		}
		return out
	}

	return &Error{Kind: KindUnknown, Err: err}
}
