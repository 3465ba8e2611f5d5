package di

import (
	"go.uber.org/fx"

	"github.com/mkurbatov/craftmarket/internal/adapter/cache"
	"github.com/mkurbatov/craftmarket/internal/adapter/events"
	"github.com/mkurbatov/craftmarket/internal/app"
	"github.com/mkurbatov/craftmarket/internal/config"
	"github.com/mkurbatov/craftmarket/internal/logger"
	"github.com/mkurbatov/craftmarket/internal/pkg/auth"
	"github.com/mkurbatov/craftmarket/internal/server/http/handlers"
	"github.com/mkurbatov/craftmarket/internal/server/http/router"
	"github.com/mkurbatov/craftmarket/internal/storage/postgres"
	"github.com/mkurbatov/craftmarket/internal/usecase"
	"github.com/mkurbatov/craftmarket/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		events.Module,
		cache.Module,
		usecase.Module,
		fx.Provide(func(d *worker.EventDispatcher) usecase.OrderEvents { return d }),
		fx.Provide(func(f *app.MarketplaceFacade) handlers.MarketFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
