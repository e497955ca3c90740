package pagination

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var crawlPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "explorer_crawl_pages_total",
	Help: "Pages fetched by the batch crawler by outcome",
}, []string{"outcome"})

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// MaxPages stops a crawl of very large sources (0 = no cap)
	MaxPages int
}

// DefaultConfig returns a conservative crawler configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
		MaxPages:       50,
	}
}

// PageFetcher fetches one window of a list endpoint.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, params Params) (Page[T], error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, params Params) (Page[T], error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, params Params) (Page[T], error) {
	return f(ctx, params)
}

// BatchFetcher walks every page of a list endpoint in parallel
type BatchFetcher[T any] struct {
	fetcher PageFetcher[T]
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](fetcher PageFetcher[T], config Config) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAll fetches page 1 to learn the total, then the remaining pages with
// bounded parallelism. Items are returned in source order. On a page failure
// the items gathered so far are returned together with the error.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context, limit int) ([]T, int, error) {
	start := time.Now()

	first, err := bf.fetchPage(ctx, Params{Page: 1, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch first page: %w", err)
	}

	totalPages := pageCount(first.Total, limit)
	if bf.config.MaxPages > 0 && totalPages > bf.config.MaxPages {
		log.Warn().
			Int("total_pages", totalPages).
			Int("max_pages", bf.config.MaxPages).
			Msg("Crawl truncated to max pages")
		totalPages = bf.config.MaxPages
	}

	log.Info().
		Int("total", first.Total).
		Int("total_pages", totalPages).
		Int("limit", limit).
		Msg("Starting parallel page fetch")

	// Keyed by page number; totalPages comes from the server and may be huge.
	pages := map[int][]T{1: first.Items}

	var (
		mu      sync.Mutex
		fetched = 1
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.config.MaxConcurrency)
	for page := 2; page <= totalPages; page++ {
		g.Go(func() error {
			result, err := bf.fetchPage(gctx, Params{Page: page, Limit: limit})
			if err != nil {
				log.Warn().Err(err).Int("page", page).Msg("Page fetch failed")
				return fmt.Errorf("page %d: %w", page, err)
			}

			mu.Lock()
			pages[page] = result.Items
			fetched++
			mu.Unlock()
			return nil
		})
	}
	waitErr := g.Wait()

	n := 0
	for _, p := range pages {
		n += len(p)
	}
	items := make([]T, 0, n)
	for _, page := range slices.Sorted(maps.Keys(pages)) {
		items = append(items, pages[page]...)
	}

	if waitErr != nil {
		log.Warn().
			Err(waitErr).
			Int("fetched_pages", fetched).
			Int("total_pages", totalPages).
			Msg("Worker error - returning partial results")
		return items, first.Total, fmt.Errorf("partial data (%d/%d pages): %w", fetched, totalPages, waitErr)
	}

	log.Info().
		Int("pages", fetched).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, first.Total, nil
}

func (bf *BatchFetcher[T]) fetchPage(ctx context.Context, params Params) (Page[T], error) {
	pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	defer cancel()

	page, err := bf.fetcher.FetchPage(pageCtx, params)
	if err != nil {
		crawlPagesTotal.WithLabelValues("error").Inc()
		return Page[T]{}, err
	}
	crawlPagesTotal.WithLabelValues("ok").Inc()
	return page, nil
}

func pageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}
	n := total / limit
	if total%limit != 0 {
		n++
	}
	return n
}
