package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/mkurbatov/craftmarket/internal/config"
	"github.com/mkurbatov/craftmarket/internal/usecase"
)

// Module wires the redis summary cache. Without a configured redis address
// the cache never hits.
var Module = fx.Options(
	fx.Provide(newSummaryCache),
	fx.Invoke(registerLifecycle),
)

type cacheParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSummaryCache(p cacheParams) usecase.SummaryCache {
	if p.Config.RedisAddr == "" {
		return usecase.NopSummaryCache{}
	}
	return New(p.Config.RedisAddr, p.Config.SummaryCacheTTL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, c usecase.SummaryCache) {
	closer, ok := c.(*SummaryCache)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})
}
