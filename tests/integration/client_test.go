//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/blockandplay/explorer/internal/api"
	"github.com/blockandplay/explorer/internal/config"
	"github.com/blockandplay/explorer/internal/explorer"
	"github.com/blockandplay/explorer/pkg/cache"
	"github.com/blockandplay/explorer/pkg/client"
	"github.com/blockandplay/explorer/pkg/fetch"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// setupRedis starts a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start redis container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisClient := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() {
		_ = redisClient.Close()
		_ = container.Terminate(ctx)
	})
	return redisClient
}

// startServer runs the API with a Redis-backed response cache.
func startServer(t *testing.T, rdb *redis.Client) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Chain.AnchorTime = anchor
	cfg.Cache.Enabled = true

	svc, err := explorer.NewService(cfg)
	require.NoError(t, err)

	manager := cache.NewManager(cache.Config{TTL: time.Minute, Size: 128}, rdb)
	srv, err := api.New(cfg, svc, manager)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestFullRequestFlow(t *testing.T) {
	rdb := setupRedis(t)
	ts := startServer(t, rdb)

	c, err := client.New(client.DefaultConfig(ts.URL))
	require.NoError(t, err)
	ctx := context.Background()

	blocks, err := c.Blocks(ctx, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, blocks.Blocks, 20)
	assert.Equal(t, 10000, blocks.Total)
	assert.Equal(t, int64(10000), blocks.Blocks[0].Height)

	past, err := c.Blocks(ctx, pagination.Params{Page: 501, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, past.Blocks)
	assert.Equal(t, 10000, past.Total)

	nfx, err := c.NFXList(ctx, pagination.Params{Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Len(t, nfx.NFX, 12)
	assert.Equal(t, 50, nfx.Total)

	_, err = c.NFX(ctx, "not-an-id")
	assert.True(t, client.IsInvalidParameter(err))

	tip := blocks.Blocks[0]
	detail, err := c.Block(ctx, "10000")
	require.NoError(t, err)
	assert.Equal(t, tip, detail)
}

func TestResponseCacheSharedThroughRedis(t *testing.T) {
	rdb := setupRedis(t)
	first := startServer(t, rdb)
	second := startServer(t, rdb)

	resp, err := http.Get(first.URL + "/api/pools?status=active")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	etag := resp.Header.Get("ETag")

	resp, err = http.Get(second.URL + "/api/pools?status=active")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	assert.Equal(t, etag, resp.Header.Get("ETag"))

	keys, err := rdb.Keys(context.Background(), "bap:*").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, keys)
}

func TestClientConditionalRequests(t *testing.T) {
	rdb := setupRedis(t)
	ts := startServer(t, rdb)

	manager := cache.NewManager(cache.DefaultConfig(), rdb)
	cfg := client.DefaultConfig(ts.URL)
	cfg.Cache = manager
	c, err := client.New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := c.Metrics(ctx)
	require.NoError(t, err)

	before := manager.Len()
	second, err := c.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, before, manager.Len())
}

func TestControllerAgainstServer(t *testing.T) {
	rdb := setupRedis(t)
	ts := startServer(t, rdb)

	c, err := client.New(client.DefaultConfig(ts.URL))
	require.NoError(t, err)

	ctrl := fetch.New[pagination.Params, model.PenaltiesResponse](func(ctx context.Context, p pagination.Params) (model.PenaltiesResponse, error) {
		return c.Penalties(ctx, p, model.PenaltySlash)
	}, pagination.Params{Page: 1, Limit: 20})
	defer ctrl.Close()

	require.NoError(t, ctrl.Start(context.Background()))
	require.Eventually(t, func() bool { return ctrl.State().Status == fetch.StatusSuccess }, 5*time.Second, 10*time.Millisecond)

	ctrl.SetParams(pagination.Params{Page: 1, Limit: 1000})
	require.Eventually(t, func() bool { return ctrl.State().Status == fetch.StatusError }, 5*time.Second, 10*time.Millisecond)

	st := ctrl.State()
	assert.Equal(t, fetch.KindUpstream, st.Err.Kind)
	assert.Equal(t, http.StatusBadRequest, st.Err.StatusCode)
	assert.True(t, st.HasData, "previous page is retained")
	for _, p := range st.Data.Penalties {
		assert.Equal(t, model.PenaltySlash, p.Type)
	}
}

func TestReadiness(t *testing.T) {
	rdb := setupRedis(t)
	ts := startServer(t, rdb)

	resp, err := http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
