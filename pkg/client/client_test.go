package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockandplay/explorer/internal/testutil"
	"github.com/blockandplay/explorer/pkg/cache"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

func newTestClient(t *testing.T, mock *testutil.MockExplorer, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := DefaultConfig(mock.URL())
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{"valid config", DefaultConfig("http://localhost:8080"), ""},
		{"missing base url", Config{UserAgent: "test/1.0"}, "base url is required"},
		{"bad scheme", Config{BaseURL: "ftp://host", UserAgent: "test/1.0"}, "http or https"},
		{"empty user agent", Config{BaseURL: "http://localhost:8080"}, "user-agent is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)
			if tt.errorMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, c)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("http://x")
	assert.Equal(t, "http://x", cfg.BaseURL)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Nil(t, cfg.Cache)
}

func TestBlocks_QueryAndDecode(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	var gotQuery string
	mock.SetHandler("/api/blocks", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"blocks":[{"height":10000},{"height":9999}],"total":10000}`))
	})

	c := newTestClient(t, mock)
	resp, err := c.Blocks(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, "limit=2&page=2", gotQuery)
	assert.Equal(t, 10000, resp.Total)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, int64(9999), resp.Blocks[1].Height)
	assert.Equal(t, DefaultConfig("").UserAgent, mock.LastRequestHeader().Get("User-Agent"))
}

func TestDetailPaths(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetJSON("/api/blocks/42", model.BlockResponse{Block: model.Block{Height: 42}})
	mock.SetJSON("/api/nfx/nfx-7", model.NFXResponse{NFX: model.NFXDetail{NFX: model.NFX{ID: "nfx-7"}}})

	c := newTestClient(t, mock)

	block, err := c.Block(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), block.Height)

	nfx, err := c.NFX(context.Background(), "nfx-7")
	require.NoError(t, err)
	assert.Equal(t, "nfx-7", nfx.ID)
}

func TestUpstreamErrorClassification(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetResponse("/api/blocks", testutil.NewErrorResponse(http.StatusBadRequest, model.CodeInvalidParameter, "invalid parameter: page must be >= 1 (got 0)"))
	mock.SetResponse("/api/pools", testutil.NewServerErrorResponse())

	c := newTestClient(t, mock)

	_, err := c.Blocks(context.Background(), pagination.Params{Page: 0, Limit: 20})
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))
	assert.False(t, IsNotFound(err))
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrorClassUpstream, e.Class)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	assert.Contains(t, e.Message, "page must be >= 1")

	_, err = c.Block(context.Background(), "99999")
	assert.True(t, IsNotFound(err))

	_, err = c.Pools(context.Background(), pagination.Params{Page: 1, Limit: 12}, "")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode)
	assert.Equal(t, model.CodeInternal, e.Code)
}

func TestDecodeError(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetResponse("/api/metrics", testutil.MockResponse{StatusCode: http.StatusOK, Body: "<html>"})

	c := newTestClient(t, mock)
	_, err := c.Metrics(context.Background())
	assert.Equal(t, ErrorClassDecode, ClassOf(err))
}

func TestDecodeError_WrongShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown envelope", `{"foo":1}`},
		{"other resource", `{"transactions":[],"total":3}`},
		{"trailing value", `{"blocks":[],"total":0}{"blocks":[]}`},
		{"array instead of object", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockExplorer()
			defer mock.Close()
			mock.SetResponse("/api/blocks", testutil.MockResponse{StatusCode: http.StatusOK, Body: tt.body})

			c := newTestClient(t, mock)
			_, err := c.Blocks(context.Background(), pagination.Params{Page: 1, Limit: 20})
			require.Error(t, err)
			assert.Equal(t, ErrorClassDecode, ClassOf(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	mock := testutil.NewMockExplorer()
	url := mock.URL()
	mock.Close()

	c, err := New(DefaultConfig(url))
	require.NoError(t, err)

	_, err = c.Network(context.Background())
	assert.Equal(t, ErrorClassTransport, ClassOf(err))
}

func TestContextTimeoutIsTransport(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetResponse("/api/network", testutil.MockResponse{StatusCode: http.StatusOK, Body: "{}", Delay: time.Second})

	c := newTestClient(t, mock)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Network(ctx)
	assert.Equal(t, ErrorClassTransport, ClassOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConditionalRequestServedFromCache(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetHandler("/api/metrics", testutil.NewConditionalHandler(`"v1"`, `{"network":"testnet","blockHeight":10000}`))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	manager := cache.NewManager(cache.DefaultConfig(), rdb)

	c := newTestClient(t, mock, func(cfg *Config) { cfg.Cache = manager })

	first, err := c.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, mock.ConditionalCount())

	second, err := c.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mock.ConditionalCount())
	assert.Equal(t, first, second)
	assert.Equal(t, int64(10000), second.BlockHeight)
	assert.Equal(t, 2, mock.PathCount("/api/metrics"))
}

func TestDo_NilOut(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()
	mock.SetJSON("/health", map[string]string{"status": "ok"})

	c := newTestClient(t, mock)
	assert.NoError(t, c.Do(context.Background(), "/health", nil, nil))
}

func TestPageFetcherWithBatchFetcher(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetHandler("/api/nfx", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			_, _ = w.Write([]byte(`{"nfx":[{"id":"nfx-1"},{"id":"nfx-2"}],"total":3}`))
		default:
			_, _ = w.Write([]byte(`{"nfx":[{"id":"nfx-3"}],"total":3}`))
		}
	})

	c := newTestClient(t, mock)
	bf := pagination.NewBatchFetcher(c.NFXPages(), pagination.DefaultConfig())

	items, total, err := bf.FetchAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, "nfx-3", items[2].ID)
}
