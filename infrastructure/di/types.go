package di

import (
	"retroboard/application/commands/bus"
	commandHandlers "retroboard/application/commands/handlers"
	"retroboard/application/ports"
	querybus "retroboard/application/queries/bus"
	"retroboard/infrastructure/config"
	"retroboard/pkg/observability"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Container holds all application dependencies. It is shared between the
// Wire injector and the manual initialization.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Analytics   *config.AnalyticsProvider
	SessionRepo ports.SessionRepository
	ItemRepo    ports.ItemRepository
	Cache       ports.Cache
	Metrics     *observability.Collector
	Tracer      trace.Tracer
	Seeder      *commandHandlers.SeedDemoDataHandler
	Importer    *commandHandlers.ImportRetrospectiveHandler
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
}
