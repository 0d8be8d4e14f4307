//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"retroboard/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
	ProvideSessionRepository,
	ProvideItemRepository,
	ProvideInMemoryCache,
	ProvideMetrics,
	ProvideTracer,
	ProvideAnalyticsProvider,
	ProvideAnalyticsConfig,
	ProvideMatchFinder,
	ProvideSeedDemoDataHandler,
	ProvideImportRetrospectiveHandler,
	ProvideCommandBus,
	ProvideCompareSessionsHandler,
	ProvideGlobalMetricsHandler,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
