// Package pagination implements the listing contract shared by every explorer
// list endpoint and a parallel crawler that walks such endpoints page by page.
//
// Two source shapes are supported:
//
//   - Bounded sources of known size. Bounded windows items in native order,
//     Descending counts heights down from a current height (never yielding
//     heights <= 0), BoundedFiltered filters the whole catalog before windowing.
//     Total is exact.
//   - Generative sources. Generate synthesizes items from the index
//     (page-1)*limit onwards, tests each against a post-hoc filter and stops
//     after limit accepted items or MaxAttempts tries. Total is either a fixed
//     estimate (TotalEstimate) or an exact scan of a bounded space (TotalExact).
//
// Page < 1 or limit < 1 is ErrInvalidParameter; nothing is clamped.
//
// Example usage:
//
//	page, err := pagination.Descending(10000, pagination.Params{Page: 1, Limit: 20}, makeBlock)
//	// page.Items[0] is height 10000, page.Total == 10000
//
// The batch fetcher:
//   - Fetches page 1 to learn the total
//   - Fetches the remaining pages with bounded parallelism (errgroup)
//   - Returns items in source order, or partial data plus the first error
package pagination
