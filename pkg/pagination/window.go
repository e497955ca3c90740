package pagination

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when page or limit are out of range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params holds the page request shared by every list endpoint.
type Params struct {
	// Page is 1-based.
	Page int `json:"page"`

	// Limit is the maximum number of items in the window.
	Limit int `json:"limit"`
}

// Validate rejects pages or limits below 1 and pages whose offset does not
// fit in an int. Values are never clamped.
func (p Params) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1 (got %d)", ErrInvalidParameter, p.Page)
	}
	if p.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1 (got %d)", ErrInvalidParameter, p.Limit)
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return fmt.Errorf("%w: page %d is out of range for limit %d", ErrInvalidParameter, p.Page, p.Limit)
	}
	return nil
}

// Offset returns the 0-based index of the first item in the window.
// It is only meaningful for params that passed Validate.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one window of an ordered source.
type Page[T any] struct {
	Items []T
	Total int
}

// Bounded windows a source of known size in its native order.
func Bounded[T any](size int, params Params, at func(i int) T) (Page[T], error) {
	if err := params.Validate(); err != nil {
		return Page[T]{}, err
	}
	if size < 0 {
		size = 0
	}

	items := make([]T, 0, windowCap(size, params))
	for i := params.Offset(); i < size && len(items) < params.Limit; i++ {
		items = append(items, at(i))
	}

	return Page[T]{Items: items, Total: size}, nil
}

// Descending windows a source counted down from current (e.g. block heights).
// Heights <= 0 never appear.
func Descending[T any](current int64, params Params, at func(height int64) T) (Page[T], error) {
	if err := params.Validate(); err != nil {
		return Page[T]{}, err
	}
	if current < 0 {
		current = 0
	}

	start := current - int64(params.Offset())
	items := make([]T, 0, windowCap(int(current), params))
	for i := 0; i < params.Limit; i++ {
		height := start - int64(i)
		if height <= 0 {
			break
		}
		items = append(items, at(height))
	}

	return Page[T]{Items: items, Total: int(current)}, nil
}

// BoundedFiltered filters the whole catalog first and then windows the matches,
// so Total is the exact matching count.
func BoundedFiltered[T any](size int, params Params, at func(i int) T, keep Predicate[T]) (Page[T], error) {
	if err := params.Validate(); err != nil {
		return Page[T]{}, err
	}
	if keep == nil {
		return Bounded(size, params, at)
	}

	matches := make([]T, 0, size)
	for i := 0; i < size; i++ {
		if item := at(i); keep(item) {
			matches = append(matches, item)
		}
	}

	return Bounded(len(matches), params, func(i int) T { return matches[i] })
}

// windowCap bounds the preallocation for a window so huge limits on small
// sources do not allocate needlessly.
func windowCap(size int, params Params) int {
	remaining := size - params.Offset()
	if remaining <= 0 {
		return 0
	}
	if remaining < params.Limit {
		return remaining
	}
	return params.Limit
}
