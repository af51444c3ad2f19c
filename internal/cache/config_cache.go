package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"paylater/internal/afterpay"
)

// DefaultTTL is how long provider configuration values are served before
// being re-fetched. The limits change rarely; stale values within the
// window are acceptable.
const DefaultTTL = 24 * time.Hour

// FetchFunc loads the configuration from the provider. A nil result means
// the lookup failed; failures are never cached.
type FetchFunc func(ctx context.Context) *afterpay.Configuration

// ConfigCache is a read-through TTL cache for the provider configuration
// scalars (minimum amount, maximum amount, currency), keyed by merchant.
// Two layers: an in-process map and, when available, Redis shared across
// instances. There is no proactive invalidation.
type ConfigCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	config   *afterpay.Configuration
	cachedAt time.Time
}

// New creates a configuration cache. redisClient may be nil; the cache then
// runs on the in-process layer alone.
func New(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *ConfigCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ConfigCache{
		redis:   redisClient,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached configuration for the merchant, fetching and
// caching it on a miss. Returns nil when no cached value exists and the
// fetch fails.
func (c *ConfigCache) Get(ctx context.Context, merchantID string, fetch FetchFunc) *afterpay.Configuration {
	if cfg := c.fromMemory(merchantID); cfg != nil {
		return cfg
	}

	if cfg := c.fromRedis(ctx, merchantID); cfg != nil {
		c.storeMemory(merchantID, cfg)
		return cfg
	}

	return c.Refresh(ctx, merchantID, fetch)
}

// Refresh bypasses the cached value, fetches from the provider and stores
// the result. Used by the scheduled warm-up as well as cache misses.
func (c *ConfigCache) Refresh(ctx context.Context, merchantID string, fetch FetchFunc) *afterpay.Configuration {
	if fetch == nil {
		return nil
	}
	cfg := fetch(ctx)
	if cfg == nil {
		return nil
	}

	c.storeMemory(merchantID, cfg)
	c.storeRedis(ctx, merchantID, cfg)
	return cfg
}

func (c *ConfigCache) fromMemory(merchantID string) *afterpay.Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[merchantID]
	if !ok || time.Since(entry.cachedAt) > c.ttl {
		return nil
	}
	return entry.config
}

func (c *ConfigCache) storeMemory(merchantID string, cfg *afterpay.Configuration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[merchantID] = memoryEntry{config: cfg, cachedAt: time.Now()}
}

func (c *ConfigCache) fromRedis(ctx context.Context, merchantID string) *afterpay.Configuration {
	if c.redis == nil {
		return nil
	}

	data, err := c.redis.Get(ctx, c.key(merchantID)).Bytes()
	if err != nil {
		return nil
	}

	var cfg afterpay.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	return &cfg
}

func (c *ConfigCache) storeRedis(ctx context.Context, merchantID string, cfg *afterpay.Configuration) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(merchantID), data, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("failed to cache provider configuration in redis", zap.Error(err))
	}
}

func (c *ConfigCache) key(merchantID string) string {
	return "afterpay:configuration:" + merchantID
}

// NewRedisClient connects to Redis, returning nil when the address is empty
// or the server is unreachable so callers fall back to in-process caching.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
