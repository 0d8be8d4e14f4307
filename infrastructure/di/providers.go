package di

import (
	"context"
	"fmt"
	"time"

	"retroboard/application/commands"
	"retroboard/application/commands/bus"
	commandHandlers "retroboard/application/commands/handlers"
	"retroboard/application/ports"
	"retroboard/application/queries"
	querybus "retroboard/application/queries/bus"
	queryHandlers "retroboard/application/queries/handlers"
	domainConfig "retroboard/domain/config"
	"retroboard/domain/services"
	"retroboard/infrastructure/config"
	"retroboard/infrastructure/persistence/dynamodb"
	"retroboard/infrastructure/persistence/memory"
	"retroboard/infrastructure/persistence/resilient"
	"retroboard/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const serviceName = "retroboard"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = level

	return zcfg.Build(zap.Fields(zap.String("service", serviceName), zap.String("environment", cfg.Environment)))
}

// Store groups the two repositories of the configured backend
type Store struct {
	Sessions ports.SessionRepository
	Items    ports.ItemRepository
}

// ProvideStore builds the repositories of the configured backend behind
// circuit breakers
func ProvideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	var (
		sessions ports.SessionRepository
		items    ports.ItemRepository
	)

	switch cfg.StorageBackend {
	case config.StorageDynamoDB:
		client, err := ProvideDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sessions = dynamodb.NewSessionRepository(client, cfg.DynamoDBTable, cfg.SessionIndexName, logger)
		items = dynamodb.NewItemRepository(client, cfg.DynamoDBTable, logger)
	default:
		sessions = memory.NewSessionRepository()
		items = memory.NewItemRepository()
	}

	sessionBreaker := resilient.DefaultBreakerConfig("sessions")
	sessionBreaker.MaxFailures = cfg.BreakerFailures
	sessionBreaker.Timeout = cfg.BreakerTimeout
	itemBreaker := sessionBreaker
	itemBreaker.Name = "items"

	logger.Info("Storage initialized", zap.String("backend", cfg.StorageBackend))

	return &Store{
		Sessions: resilient.NewSessionRepository(sessions, sessionBreaker, logger),
		Items:    resilient.NewItemRepository(items, itemBreaker, logger),
	}, nil
}

// ProvideDynamoDBClient creates a DynamoDB client. DYNAMODB_ENDPOINT points
// it at a local instance.
func ProvideDynamoDBClient(ctx context.Context, cfg *config.Config) (*awsdynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

// ProvideSessionRepository extracts the session repository from the store
func ProvideSessionRepository(store *Store) ports.SessionRepository {
	return store.Sessions
}

// ProvideItemRepository extracts the item repository from the store
func ProvideItemRepository(store *Store) ports.ItemRepository {
	return store.Items
}

// ProvideInMemoryCache creates the query result cache
func ProvideInMemoryCache() (ports.Cache, func()) {
	cache := NewInMemoryCache(time.Minute)
	return cache, cache.Close
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(serviceName)
}

// ProvideTracer exports spans when tracing is enabled and returns a no-op
// tracer otherwise
func ProvideTracer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (trace.Tracer, func(), error) {
	if !cfg.EnableTracing {
		return observability.NoopTracer(), func() {}, nil
	}

	tp, err := observability.InitTracing(ctx, serviceName, cfg.Environment, cfg.OTelEndpoint)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
	return tp.Tracer(), cleanup, nil
}

// ProvideAnalyticsProvider serves the analytics thresholds, reloading the
// YAML file when one is configured. Reloads drop cached query results.
func ProvideAnalyticsProvider(
	cfg *config.Config,
	cache ports.Cache,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*config.AnalyticsProvider, func(), error) {
	provider, err := config.NewAnalyticsProvider(cfg.Analytics, cfg.AnalyticsConfigPath, logger)
	if err != nil {
		return nil, nil, err
	}

	provider.OnChange(func(*domainConfig.AnalyticsConfig) {
		metrics.ConfigReloads.Inc()
		if err := cache.Clear(context.Background()); err != nil {
			logger.Warn("Failed to clear query cache after reload", zap.Error(err))
		}
	})

	if err := provider.Watch(); err != nil {
		return nil, nil, err
	}

	return provider, func() { _ = provider.Close() }, nil
}

// ProvideAnalyticsConfig exposes the provider through its port
func ProvideAnalyticsConfig(provider *config.AnalyticsProvider) ports.AnalyticsConfigProvider {
	return provider
}

// ProvideMatchFinder selects the match finding strategy
func ProvideMatchFinder(cfg *config.Config) services.MatchFinder {
	return services.NewMatchFinder(cfg.MatchStrategy)
}

// ProvideSeedDemoDataHandler creates the demo seeding handler
func ProvideSeedDemoDataHandler(
	sessions ports.SessionRepository,
	items ports.ItemRepository,
	cache ports.Cache,
	logger *zap.Logger,
) *commandHandlers.SeedDemoDataHandler {
	return commandHandlers.NewSeedDemoDataHandler(sessions, items, cache, logger)
}

// ProvideImportRetrospectiveHandler creates the import handler
func ProvideImportRetrospectiveHandler(
	sessions ports.SessionRepository,
	items ports.ItemRepository,
	cache ports.Cache,
	logger *zap.Logger,
) *commandHandlers.ImportRetrospectiveHandler {
	return commandHandlers.NewImportRetrospectiveHandler(sessions, items, cache, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	seed *commandHandlers.SeedDemoDataHandler,
	importer *commandHandlers.ImportRetrospectiveHandler,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))

	if err := commandBus.Register(commands.SeedDemoDataCommand{}, seed); err != nil {
		return nil, err
	}
	if err := commandBus.Register(commands.ImportRetrospectiveCommand{}, importer); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideCompareSessionsHandler creates the comparison handler
func ProvideCompareSessionsHandler(
	sessions ports.SessionRepository,
	items ports.ItemRepository,
	analytics ports.AnalyticsConfigProvider,
	finder services.MatchFinder,
	tracer trace.Tracer,
	logger *zap.Logger,
) *queryHandlers.CompareSessionsHandler {
	return queryHandlers.NewCompareSessionsHandler(sessions, items, analytics, finder, tracer, logger)
}

// ProvideGlobalMetricsHandler creates the global metrics handler
func ProvideGlobalMetricsHandler(
	sessions ports.SessionRepository,
	items ports.ItemRepository,
	analytics ports.AnalyticsConfigProvider,
	logger *zap.Logger,
) *queryHandlers.GlobalMetricsHandler {
	return queryHandlers.NewGlobalMetricsHandler(sessions, items, analytics, logger)
}

// ProvideQueryBus creates a query bus with registered handlers. Global
// metrics results are cached; comparisons are always computed.
func ProvideQueryBus(
	compare *queryHandlers.CompareSessionsHandler,
	global *queryHandlers.GlobalMetricsHandler,
	cache ports.Cache,
	metrics *observability.Collector,
	cfg *config.Config,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	var common []querybus.Middleware
	if cfg.EnableMetrics {
		common = append(common, querybus.NewMetricsMiddleware(&busMetrics{collector: metrics}))
	}

	compareHandler := querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.CompareSessionsQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type: %T", query)
		}
		return compare.Handle(ctx, q)
	})
	if err := queryBus.Register(queries.CompareSessionsQuery{}, compareHandler, common...); err != nil {
		return nil, err
	}

	globalHandler := querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		q, ok := query.(queries.GlobalMetricsQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type: %T", query)
		}
		return global.Handle(ctx, q)
	})
	globalMiddlewares := append(append([]querybus.Middleware(nil), common...),
		querybus.NewCachingMiddleware(cache, cfg.MetricsCacheTTL))
	if err := queryBus.Register(queries.GlobalMetricsQuery{}, globalHandler, globalMiddlewares...); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// busMetrics adapts the Prometheus collector to the query bus
type busMetrics struct {
	collector *observability.Collector
}

func (m *busMetrics) Increment(metric, label string) {
	m.collector.CountQuery(metric, label)
}

func (m *busMetrics) StartTimer(metric, label string) querybus.Timer {
	return &busTimer{collector: m.collector, query: label, start: time.Now()}
}

type busTimer struct {
	collector *observability.Collector
	query     string
	start     time.Time
}

func (t *busTimer) Stop() {
	t.collector.ObserveQuery(t.query, time.Since(t.start))
}

var _ querybus.Metrics = (*busMetrics)(nil)
