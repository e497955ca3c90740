package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blockandplay/explorer/pkg/model"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassTransport means the request could not be sent or timed out.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassUpstream means the server answered with a non-2xx status.
	ErrorClassUpstream ErrorClass = "upstream"

	// ErrorClassDecode means the body was not JSON of the expected shape.
	ErrorClassDecode ErrorClass = "decode"
)

// Error is a classified request failure.
type Error struct {
	Class      ErrorClass
	StatusCode int
	// Code is the server's error code (invalid_parameter, not_found, internal).
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("explorer %s error", e.Class)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request could succeed.
// Only transport failures and 5xx answers qualify.
func (e *Error) Retryable() bool {
	switch e.Class {
	case ErrorClassTransport:
		return true
	case ErrorClassUpstream:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// ClassOf returns the class of a client error, or "" for other errors.
func ClassOf(err error) ErrorClass {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}

// IsNotFound reports whether the server rejected the request as not found.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == ErrorClassUpstream &&
		(e.Code == model.CodeNotFound || e.StatusCode == http.StatusNotFound)
}

// IsInvalidParameter reports whether the server rejected a request parameter.
func IsInvalidParameter(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == ErrorClassUpstream &&
		(e.Code == model.CodeInvalidParameter || e.StatusCode == http.StatusBadRequest)
}

func shouldRetry(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}
