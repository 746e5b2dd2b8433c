// Package resultcache caches serialized search responses in Redis.
// Unavailability degrades to uncached operation, never an error.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Config holds connection parameters for the result cache.
type Config struct {
	Addrs     []string
	Password  string
	KeyPrefix string
	TTL       time.Duration
}

// Cache stores search responses keyed by (query, top_k).
type Cache struct {
	client     rueidis.Client
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache via rueidis.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) (*Cache, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache client: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "campsearch:"
	}
	return &Cache{
		client:     client,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}, nil
}

// Get returns a cached response for (query, topK), or false on miss or
// cache error.
func (c *Cache) Get(ctx context.Context, query string, topK int) ([]byte, bool) {
	cmd := c.client.B().Get().Key(c.key(query, topK)).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("result cache get failed", zap.Error(err))
		}
		c.inc("miss")
		return nil, false
	}
	c.inc("hit")
	return data, true
}

// Set stores a response with the configured TTL. Failures are logged and
// swallowed.
func (c *Cache) Set(ctx context.Context, query string, topK int, value []byte) {
	cmd := c.client.B().Set().Key(c.key(query, topK)).Value(string(value)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("result cache set failed", zap.Error(err))
	}
}

// Ping checks cache connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (c *Cache) Close() {
	c.client.Close()
}

func (c *Cache) key(query string, topK int) string {
	h := sha256.Sum256([]byte(query))
	return c.prefix + "search:" + hex.EncodeToString(h[:16]) + ":" + strconv.Itoa(topK)
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
