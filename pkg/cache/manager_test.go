package cache

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis starts an in-memory Redis for the duration of the test.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func testKey(page string) CacheKey {
	return CacheKey{Endpoint: "/api/blocks", QueryParams: url.Values{"page": []string{page}}}
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(Config{}, nil)
	assert.Equal(t, DefaultConfig().TTL, m.TTL())
	assert.False(t, m.HasRedis())
	assert.NoError(t, m.Ping(context.Background()))
}

func TestManager_MemoryOnly(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	ctx := context.Background()

	_, err := m.Get(ctx, testKey("1"))
	assert.ErrorIs(t, err, ErrCacheMiss)

	entry := NewEntry([]byte(`{"total":10000}`), 200, time.Minute)
	require.NoError(t, m.Set(ctx, testKey("1"), entry))

	got, err := m.Get(ctx, testKey("1"))
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, testKey("1")))
	_, err = m.Get(ctx, testKey("1"))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestManager_SetAndGetRedis(t *testing.T) {
	client, mr := setupTestRedis(t)
	m := NewManager(DefaultConfig(), client)
	ctx := context.Background()

	entry := NewEntry([]byte(`{"blocks":[]}`), 200, time.Minute)
	require.NoError(t, m.Set(ctx, testKey("2"), entry))

	assert.True(t, mr.Exists(testKey("2").String()))
	assert.Greater(t, mr.TTL(testKey("2").String()), time.Duration(0))

	got, err := m.Get(ctx, testKey("2"))
	require.NoError(t, err)
	assert.Equal(t, entry.ETag, got.ETag)
}

func TestManager_PromotesRedisHits(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	writer := NewManager(DefaultConfig(), client)
	entry := NewEntry([]byte(`{"pools":[]}`), 200, time.Minute)
	require.NoError(t, writer.Set(ctx, testKey("3"), entry))

	reader := NewManager(DefaultConfig(), client)
	assert.Equal(t, 0, reader.Len())

	got, err := reader.Get(ctx, testKey("3"))
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.Equal(t, 1, reader.Len(), "redis hit must be promoted to memory")
}

func TestManager_SkipsExpired(t *testing.T) {
	client, mr := setupTestRedis(t)
	m := NewManager(DefaultConfig(), client)
	ctx := context.Background()

	entry := NewEntry([]byte(`{}`), 200, time.Minute)
	entry.Expires = time.Now().Add(-time.Second)
	require.NoError(t, m.Set(ctx, testKey("4"), entry))

	assert.False(t, mr.Exists(testKey("4").String()))
	_, err := m.Get(ctx, testKey("4"))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestManager_InvalidEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	m := NewManager(DefaultConfig(), client)

	require.NoError(t, mr.Set(testKey("5").String(), "not json"))

	_, err := m.Get(context.Background(), testKey("5"))
	assert.True(t, errors.Is(err, ErrInvalidEntry))
}

func TestManager_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	m := NewManager(DefaultConfig(), client)
	mr.Close()

	_, err := m.Get(context.Background(), testKey("6"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Error(t, m.Ping(context.Background()))
}

func TestManager_UpdateTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	m := NewManager(DefaultConfig(), client)
	ctx := context.Background()

	entry := NewEntry([]byte(`{}`), 200, 10*time.Second)
	require.NoError(t, m.Set(ctx, testKey("7"), entry))

	require.NoError(t, m.UpdateTTL(ctx, testKey("7"), time.Now().Add(time.Hour)))
	assert.Greater(t, mr.TTL(testKey("7").String()), 50*time.Minute)

	assert.ErrorIs(t, m.UpdateTTL(ctx, testKey("missing"), time.Now().Add(time.Hour)), ErrCacheMiss)
}

func TestManager_SetNil(t *testing.T) {
	assert.Error(t, NewManager(DefaultConfig(), nil).Set(context.Background(), testKey("1"), nil))
}
