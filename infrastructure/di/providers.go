package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"appbuilder/application/commands/bus"
	commandhandlers "appbuilder/application/commands/handlers"
	"appbuilder/application/ports"
	querybus "appbuilder/application/queries/bus"
	queryhandlers "appbuilder/application/queries/handlers"
	"appbuilder/application/services"
	"appbuilder/infrastructure/config"
	"appbuilder/infrastructure/messaging/eventbridge"
	"appbuilder/infrastructure/persistence/dynamodb"
	"appbuilder/infrastructure/persistence/memory"
	"appbuilder/infrastructure/persistence/postgres"
	"appbuilder/infrastructure/persistence/sqlite"
	"appbuilder/pkg/extensions"
	"appbuilder/pkg/observability"
	"appbuilder/pkg/ratelimit"
	"appbuilder/pkg/utils"
)

// CatalogCacheTTL is how long catalog answers stay cached, in seconds
const CatalogCacheTTL = 3600

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// Stores holds the repositories of the configured persistence driver
type Stores struct {
	Documents ports.DocumentRepository
	Projects  ports.ProjectRepository
	Driver    string
}

// ProvideStores opens the persistence driver named by the configuration.
// The cleanup function closes its connections.
func ProvideStores(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*Stores, func(), error) {
	noop := func() {}
	switch cfg.PersistenceDriver {
	case config.DriverMemory, "":
		return &Stores{
			Documents: memory.NewDocumentRepository(),
			Projects:  memory.NewProjectRepository(),
			Driver:    config.DriverMemory,
		}, noop, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close SQLite store", zap.Error(err))
			}
		}
		return &Stores{Documents: store, Projects: store.Projects(), Driver: cfg.PersistenceDriver}, cleanup, nil

	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, logger)
		if err != nil {
			return nil, nil, err
		}
		return &Stores{Documents: store, Projects: store.Projects(), Driver: cfg.PersistenceDriver}, store.Close, nil

	case config.DriverDynamoDB:
		client := awsdynamodb.NewFromConfig(awsCfg)
		return &Stores{
			Documents: dynamodb.NewDocumentRepository(client, cfg.DynamoDBTable, logger),
			Projects:  dynamodb.NewProjectRepository(client, cfg.DynamoDBTable, logger),
			Driver:    cfg.PersistenceDriver,
		}, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.PersistenceDriver)
}

// ProvideDocumentRepository exposes the document store
func ProvideDocumentRepository(stores *Stores) ports.DocumentRepository {
	return stores.Documents
}

// ProvideProjectRepository exposes the project store
func ProvideProjectRepository(stores *Stores) ports.ProjectRepository {
	return stores.Projects
}

// ProvideEventPublisher creates the EventBridge publisher, or nil when no
// bus is configured
func ProvideEventPublisher(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(
		awseventbridge.NewFromConfig(awsCfg),
		cfg.EventBusName,
		cfg.EventSource,
		eventbridge.DefaultBreakerSettings(),
		logger,
	)
}

// MetricsBackend is the configured metrics sink. Prometheus is set only for
// the prometheus backend, so the router knows whether to mount /metrics.
type MetricsBackend struct {
	Metrics    ports.Metrics
	Prometheus *observability.PrometheusMetrics
}

// ProvideMetricsBackend creates the metrics sink named by the configuration.
// CloudWatch datums are flushed in the background and on cleanup.
func ProvideMetricsBackend(ctx context.Context, awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) (*MetricsBackend, func(), error) {
	switch cfg.MetricsBackend {
	case config.MetricsNone, "":
		return &MetricsBackend{Metrics: observability.NoopMetrics{}}, func() {}, nil

	case config.MetricsPrometheus:
		prom := observability.NewPrometheusMetrics(cfg.MetricsNamespace)
		return &MetricsBackend{Metrics: prom, Prometheus: prom}, func() {}, nil

	case config.MetricsCloudWatch:
		namespace := fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.Environment)
		cw := observability.NewMetrics(namespace, awscloudwatch.NewFromConfig(awsCfg), logger)
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		done := make(chan struct{})
		go func() {
			defer close(done)
			cw.Run(runCtx, 30*time.Second)
		}()
		cleanup := func() {
			cancel()
			<-done
		}
		return &MetricsBackend{Metrics: cw}, cleanup, nil
	}
	return nil, nil, fmt.Errorf("unknown metrics backend %q", cfg.MetricsBackend)
}

// ProvideMetrics exposes the metrics port
func ProvideMetrics(backend *MetricsBackend) ports.Metrics {
	return backend.Metrics
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("appbuilder", cfg.EnableTracing)
}

// ProvideInMemoryCache creates the bounded preview and catalog cache
func ProvideInMemoryCache(cfg *config.Config) (*InMemoryCache, func()) {
	size := 0
	if cfg.Editor != nil {
		size = cfg.Editor.PreviewCacheSize
	}
	cache := NewInMemoryCache(size)
	return cache, cache.Close
}

// ProvideRateLimiter creates the per-client API limiter, or nil when the
// configured budget is zero. Idle clients are swept every minute.
func ProvideRateLimiter(ctx context.Context, cfg *config.Config) (*ratelimit.IPLimiter, func()) {
	if cfg.RateLimitPerMinute <= 0 {
		return nil, func() {}
	}
	limiter := ratelimit.NewIPLimiter(cfg.RateLimitPerMinute, utils.SystemClock)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go limiter.Run(runCtx, time.Minute)
	return limiter, cancel
}

// ProvideCache exposes the cache port
func ProvideCache(cache *InMemoryCache) ports.Cache {
	return cache
}

// ProvideHooks registers persistence, publishing and metrics on the
// document lifecycle hook points
func ProvideHooks(
	documents ports.DocumentRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) *extensions.HookManager {
	hooks := extensions.NewHookManager()
	services.RegisterDocumentHooks(hooks, documents, publisher, metrics, logger)
	return hooks
}

// ProvideSessionRegistry creates the registry of open editor sessions
func ProvideSessionRegistry(
	documents ports.DocumentRepository,
	projects ports.ProjectRepository,
	hooks *extensions.HookManager,
	cfg *config.Config,
	logger *zap.Logger,
) *services.SessionRegistry {
	return services.NewSessionRegistry(documents, projects, hooks, cfg.Editor, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	registry *services.SessionRegistry,
	projects ports.ProjectRepository,
	metrics ports.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(bus.ZapLogger(logger)),
		bus.MetricsMiddleware(metrics),
		bus.TracingMiddleware(tracer),
	)
	if err := commandhandlers.NewDocumentHandlers(registry, projects, logger).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	registry *services.SessionRegistry,
	projects ports.ProjectRepository,
	cache ports.Cache,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	err := queryhandlers.NewDocumentQueryHandlers(registry, projects, cache, logger).Register(
		queryBus,
		querybus.NewCachingMiddleware(cache, CatalogCacheTTL, logger).Wrap,
		querybus.NewMetricsMiddleware(metrics).Wrap,
	)
	if err != nil {
		return nil, err
	}
	return queryBus, nil
}
