package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Config holds cache manager configuration.
type Config struct {
	// TTL is the lifetime of entries created through NewEntry.
	TTL time.Duration

	// Size is the maximum number of entries kept in memory.
	Size int
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL:  30 * time.Second,
		Size: 1024,
	}
}

// Manager handles caching with an in-memory LRU and an optional Redis layer.
type Manager struct {
	memory *expirable.LRU[string, *CacheEntry]
	redis  *redis.Client
	config Config
	logger zerolog.Logger
}

// NewManager creates a new cache manager. redisClient may be nil, in which
// case only the memory layer is used.
func NewManager(cfg Config, redisClient *redis.Client) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	return &Manager{
		memory: expirable.NewLRU[string, *CacheEntry](cfg.Size, nil, cfg.TTL),
		redis:  redisClient,
		config: cfg,
		logger: log.With().Str("component", "cache").Logger(),
	}
}

// TTL returns the configured entry lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// HasRedis reports whether the Redis layer is configured.
func (m *Manager) HasRedis() bool {
	return m.redis != nil
}

// Get retrieves a cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist or entry is expired.
func (m *Manager) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	cacheKey := key.String()

	if entry, ok := m.memory.Get(cacheKey); ok && !entry.IsExpired() {
		CacheHits.WithLabelValues("memory").Inc()
		m.logger.Debug().Str("key", cacheKey).Str("layer", "memory").Msg("Cache hit")
		return entry, nil
	}

	if m.redis == nil {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	data, err := m.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("redis").Inc()
	m.logger.Debug().Str("key", cacheKey).Str("layer", "redis").Msg("Cache hit")
	m.memory.Add(cacheKey, &entry)

	return &entry, nil
}

// Set stores a cache entry in every configured layer.
// Entries that are already expired are not stored.
func (m *Manager) Set(ctx context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	cacheKey := key.String()

	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	m.memory.Add(cacheKey, entry)

	if m.redis == nil {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cache entry from every layer.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	cacheKey := key.String()
	m.memory.Remove(cacheKey)

	if m.redis == nil {
		return nil
	}

	if err := m.redis.Del(ctx, cacheKey).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// UpdateTTL extends the lifetime of an existing entry.
// Used when a 304 Not Modified confirms the cached body.
func (m *Manager) UpdateTTL(ctx context.Context, key CacheKey, newExpires time.Time) error {
	entry, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	updated := *entry
	updated.Expires = newExpires

	return m.Set(ctx, key, &updated)
}

// Ping checks the Redis layer. A memory-only manager is always ready.
func (m *Manager) Ping(ctx context.Context) error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Ping(ctx).Err()
}

// Len returns the number of entries in the memory layer.
func (m *Manager) Len() int {
	return m.memory.Len()
}
