package pagination

// Predicate decides whether an item belongs to a filtered view.
type Predicate[T any] func(T) bool

// MatchAll accepts every item.
func MatchAll[T any](T) bool { return true }

// Equals builds a predicate over a categorical attribute. An empty want means
// the filter parameter was absent, which matches everything.
func Equals[T any, V comparable](attr func(T) V, want V) Predicate[T] {
	var zero V
	if want == zero {
		return MatchAll[T]
	}
	return func(item T) bool {
		return attr(item) == want
	}
}

// Filter returns the items accepted by keep, preserving order.
// Applying the same predicate twice yields the same slice contents as once.
func Filter[T any](items []T, keep Predicate[T]) []T {
	if keep == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// OneOf reports whether v is one of the allowed categorical values.
// Used to reject unknown filter values before any generation happens.
func OneOf[V comparable](v V, allowed ...V) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
