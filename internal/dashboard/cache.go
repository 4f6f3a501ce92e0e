package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed reports in Redis, keyed by tenant and filter hash.
// Cache failures are soft: a miss is returned on read errors and write
// errors are only logged, so Redis outages never break recomputation.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewCache(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(tenantID string, f Filters) string {
	b, _ := json.Marshal(f)
	sum := sha256.Sum256(b)
	return fmt.Sprintf("dashboard:%s:%s", tenantID, hex.EncodeToString(sum[:8]))
}

func (c *Cache) Get(ctx context.Context, tenantID string, f Filters) (Report, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(tenantID, f)).Bytes()
	if err != nil {
		return Report{}, false
	}
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		c.log.Warn("cache entry corrupt, ignoring", "tenant", tenantID, "err", err)
		return Report{}, false
	}
	return r, true
}

func (c *Cache) Set(ctx context.Context, tenantID string, f Filters, r Report) {
	b, err := json.Marshal(r)
	if err != nil {
		c.log.Warn("cache marshal failed", "tenant", tenantID, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(tenantID, f), b, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "tenant", tenantID, "err", err)
	}
}
