package bureau

import (
	"context"
	"encoding/json"
	"time"

	"bank-automation/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cached wraps a bureau source with a Redis report cache so repeated
// assessments within the reuse window do not hit the source again.
type Cached struct {
	inner Bureau
	redis *redis.Client
	ttl   time.Duration
}

// NewCached wraps inner with a report cache.
func NewCached(inner Bureau, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, redis: rdb, ttl: ttl}
}

func (c *Cached) Source() string { return c.inner.Source() }

func (c *Cached) Fetch(ctx context.Context, customerID string, info *models.PersonalInfo) (*models.BureauResponse, error) {
	key := cacheKey(c.inner.Source(), customerID)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var resp models.BureauResponse
		if err := json.Unmarshal([]byte(val), &resp); err == nil {
			return &resp, nil
		}
	}

	resp, err := c.inner.Fetch(ctx, customerID, info)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		// Cache write failures are invisible to the caller; the next fetch
		// simply misses.
		c.redis.Set(ctx, key, data, c.ttl)
	}
	return resp, nil
}

func cacheKey(source, customerID string) string {
	return "bureau:report:" + source + ":" + customerID
}
