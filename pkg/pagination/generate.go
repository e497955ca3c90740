package pagination

import "math"

// DefaultMaxAttempts caps generation attempts per window.
const DefaultMaxAttempts = 100

// TotalPolicy selects how a generative source reports Total.
type TotalPolicy int

const (
	// TotalEstimate reports the space size (or EstimatedTotal) regardless of the filter.
	TotalEstimate TotalPolicy = iota

	// TotalExact scans the whole bounded space and counts filter matches.
	// Requires Size > 0.
	TotalExact
)

// GenerateSpec describes a generative source whose items are synthesized on
// demand and tested against a filter after generation.
type GenerateSpec[T any] struct {
	// At synthesizes the item at a 0-based recency index.
	At func(index int) T

	// Keep is the post-hoc filter. Nil accepts everything.
	Keep Predicate[T]

	// MaxAttempts bounds the number of indices tried per window.
	// Zero means DefaultMaxAttempts.
	MaxAttempts int

	// Size bounds the index space. Zero means unbounded.
	Size int

	// EstimatedTotal overrides Size as the reported total under TotalEstimate.
	EstimatedTotal int

	// Policy selects the Total semantics.
	Policy TotalPolicy
}

// Generate starts at the unfiltered index (page-1)*limit and advances one index
// per attempt until limit items were accepted, the attempt cap is hit, or the
// space is exhausted.
func Generate[T any](spec GenerateSpec[T], params Params) (Page[T], error) {
	if err := params.Validate(); err != nil {
		return Page[T]{}, err
	}

	attempts := spec.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	keep := spec.Keep
	if keep == nil {
		keep = MatchAll[T]
	}

	items := make([]T, 0, min(params.Limit, attempts))
	index := params.Offset()
	for tried := 0; len(items) < params.Limit && tried < attempts; tried++ {
		if spec.Size > 0 && index >= spec.Size {
			break
		}
		if item := spec.At(index); keep(item) {
			items = append(items, item)
		}
		if index == math.MaxInt {
			break
		}
		index++
	}

	return Page[T]{Items: items, Total: spec.total(keep)}, nil
}

func (s GenerateSpec[T]) total(keep Predicate[T]) int {
	if s.Policy == TotalExact && s.Size > 0 {
		count := 0
		for i := 0; i < s.Size; i++ {
			if keep(s.At(i)) {
				count++
			}
		}
		return count
	}
	if s.EstimatedTotal > 0 {
		return s.EstimatedTotal
	}
	return s.Size
}
