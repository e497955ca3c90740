package explorer

import (
	"errors"
	"fmt"

	"github.com/blockandplay/explorer/pkg/pagination"
)

var (
	// ErrInvalidParameter marks malformed pagination, filter or identifier input.
	// It is the same sentinel the pagination engine returns.
	ErrInvalidParameter = pagination.ErrInvalidParameter

	// ErrNotFound marks a well-formed identifier that resolves to nothing.
	ErrNotFound = errors.New("not found")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
