//go:build !wireinject
// +build !wireinject

package di

import (
	"context"

	"retroboard/infrastructure/config"
)

// InitializeContainer creates a fully wired container. The returned cleanup
// releases resources in reverse construction order.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := ProvideStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	sessionRepo := ProvideSessionRepository(store)
	itemRepo := ProvideItemRepository(store)

	cache, cacheCleanup := ProvideInMemoryCache()
	metrics := ProvideMetrics()

	tracer, tracerCleanup, err := ProvideTracer(ctx, cfg, logger)
	if err != nil {
		cacheCleanup()
		return nil, nil, err
	}

	analytics, analyticsCleanup, err := ProvideAnalyticsProvider(cfg, cache, metrics, logger)
	if err != nil {
		tracerCleanup()
		cacheCleanup()
		return nil, nil, err
	}
	analyticsConfig := ProvideAnalyticsConfig(analytics)
	finder := ProvideMatchFinder(cfg)

	cleanup := func() {
		analyticsCleanup()
		tracerCleanup()
		cacheCleanup()
		_ = logger.Sync()
	}

	seeder := ProvideSeedDemoDataHandler(sessionRepo, itemRepo, cache, logger)
	importer := ProvideImportRetrospectiveHandler(sessionRepo, itemRepo, cache, logger)
	commandBus, err := ProvideCommandBus(seeder, importer, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	compare := ProvideCompareSessionsHandler(sessionRepo, itemRepo, analyticsConfig, finder, tracer, logger)
	global := ProvideGlobalMetricsHandler(sessionRepo, itemRepo, analyticsConfig, logger)
	queryBus, err := ProvideQueryBus(compare, global, cache, metrics, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Analytics:   analytics,
		SessionRepo: sessionRepo,
		ItemRepo:    itemRepo,
		Cache:       cache,
		Metrics:     metrics,
		Tracer:      tracer,
		Seeder:      seeder,
		Importer:    importer,
		CommandBus:  commandBus,
		QueryBus:    queryBus,
	}, cleanup, nil
}
