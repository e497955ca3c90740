package pagination

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFetcher(size int) PageFetcherFunc[int] {
	return func(_ context.Context, params Params) (Page[int], error) {
		return Bounded(size, params, identity)
	}
}

func TestBatchFetcher_FetchAll(t *testing.T) {
	bf := NewBatchFetcher[int](catalogFetcher(50), Config{MaxConcurrency: 3, Timeout: time.Second})

	items, total, err := bf.FetchAll(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 50, total)
	require.Len(t, items, 50)
	for i, v := range items {
		assert.Equal(t, i, v, "items must keep source order")
	}
}

func TestBatchFetcher_SinglePage(t *testing.T) {
	var calls atomic.Int32
	fetcher := PageFetcherFunc[int](func(ctx context.Context, params Params) (Page[int], error) {
		calls.Add(1)
		return Bounded(5, params, identity)
	})

	items, total, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAll(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, items, 5)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBatchFetcher_MaxPages(t *testing.T) {
	bf := NewBatchFetcher[int](catalogFetcher(10000), Config{MaxConcurrency: 2, MaxPages: 3})

	items, total, err := bf.FetchAll(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 10000, total)
	assert.Len(t, items, 60)
}

func TestBatchFetcher_FirstPageError(t *testing.T) {
	boom := errors.New("boom")
	fetcher := PageFetcherFunc[int](func(context.Context, Params) (Page[int], error) {
		return Page[int]{}, boom
	})

	items, _, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAll(context.Background(), 10)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, items)
}

func TestBatchFetcher_PartialResults(t *testing.T) {
	boom := errors.New("page unavailable")
	fetcher := PageFetcherFunc[int](func(ctx context.Context, params Params) (Page[int], error) {
		if params.Page == 3 {
			return Page[int]{}, boom
		}
		return Bounded(40, params, identity)
	})

	items, total, err := NewBatchFetcher[int](fetcher, Config{MaxConcurrency: 1}).FetchAll(context.Background(), 10)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 40, total)
	assert.NotEmpty(t, items)
	assert.Equal(t, 0, items[0])
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 20))
	assert.Equal(t, 1, pageCount(20, 20))
	assert.Equal(t, 2, pageCount(21, 20))
	assert.Equal(t, 500, pageCount(10000, 20))
	assert.Equal(t, math.MaxInt/20+1, pageCount(math.MaxInt, 20))
}

func TestBatchFetcher_HugeReportedTotal(t *testing.T) {
	fetcher := PageFetcherFunc[int](func(_ context.Context, params Params) (Page[int], error) {
		page, err := Bounded(1000, params, identity)
		page.Total = math.MaxInt
		return page, err
	})

	bf := NewBatchFetcher[int](fetcher, Config{MaxConcurrency: 2, MaxPages: 3})
	var (
		items []int
		total int
		err   error
	)
	require.NotPanics(t, func() {
		items, total, err = bf.FetchAll(context.Background(), 10)
	})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, total)
	require.Len(t, items, 30)
	assert.Equal(t, 29, items[29])
}
