package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// SummaryCache keeps seller sales summaries in redis with a short TTL.
// Every failure is treated as a miss: the cache must never take the read
// path down with it.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects a summary cache to the given redis address.
func New(addr string, ttl time.Duration, logger *slog.Logger) *SummaryCache {
	return &SummaryCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

func key(shop string) string {
	return "summary:" + shop
}

// Get returns the cached summary for the shop, if present.
func (c *SummaryCache) Get(ctx context.Context, shop string) (*model.SalesSummary, bool) {
	raw, err := c.client.Get(ctx, key(shop)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("summary cache get failed", slog.String("shop", shop), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var summary model.SalesSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// Set stores the summary for the shop.
func (c *SummaryCache) Set(ctx context.Context, shop string, summary *model.SalesSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(shop), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache set failed", slog.String("shop", shop), slog.String("error", err.Error()))
	}
}

// Close releases the redis connection.
func (c *SummaryCache) Close() error {
	return c.client.Close()
}
