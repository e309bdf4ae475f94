package di

import (
	"go.uber.org/fx"

	"github.com/dsmirnov/coursegate/internal/adapter/catalog"
	"github.com/dsmirnov/coursegate/internal/adapter/gateway"
	"github.com/dsmirnov/coursegate/internal/app"
	"github.com/dsmirnov/coursegate/internal/config"
	"github.com/dsmirnov/coursegate/internal/logger"
	"github.com/dsmirnov/coursegate/internal/pkg/auth"
	"github.com/dsmirnov/coursegate/internal/server/http/handlers"
	"github.com/dsmirnov/coursegate/internal/server/http/router"
	"github.com/dsmirnov/coursegate/internal/storage/postgres"
	"github.com/dsmirnov/coursegate/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		catalog.Module,
		gateway.Module,
		usecase.Module,
		fx.Provide(func(f *app.PlatformFacade) handlers.PlatformFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
