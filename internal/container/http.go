package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortref/internal/handlers"
	"github.com/serroba/shortref/internal/health"
	"github.com/serroba/shortref/internal/middleware"
	"github.com/serroba/shortref/internal/shortener"
	"github.com/serroba/shortref/internal/urlcheck"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the huma API with every route
// registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)
		checkers := map[string]health.Checker{}

		if opts.UsesRedis() {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
		}

		if opts.UsesPostgres() {
			checkers["postgres"] = health.NewPostgresChecker(do.MustInvoke[*PostgresPool](i).Pool)
		}

		return health.NewHandler(checkers), nil
	})

	do.Provide(i, func(i *do.Injector) (*handlers.URLHandler, error) {
		opts := do.MustInvoke[*Options](i)
		tracking := do.MustInvoke[*Tracking](i)

		handlerOpts := []handlers.URLHandlerOption{
			handlers.WithChecker(do.MustInvoke[*urlcheck.Checker](i)),
		}

		if tracking.Log != nil {
			handlerOpts = append(handlerOpts, handlers.WithAccessLog(tracking.Log))
		}

		if opts.Normalize {
			handlerOpts = append(handlerOpts, handlers.WithNormalize())
		}

		return handlers.NewURLHandler(
			do.MustInvoke[*shortener.Allocator](i),
			do.MustInvoke[*shortener.Resolver](i),
			opts.ShortBaseURL(),
			do.MustInvoke[*zap.Logger](i),
			handlerOpts...,
		), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("Short References", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))

		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))
		handlers.RegisterRoutes(api, do.MustInvoke[*handlers.URLHandler](i))

		return api, nil
	})
}
