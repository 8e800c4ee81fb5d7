package di

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eykd/prosemark-sub000/application/commands/bus"
	commands_handlers "github.com/eykd/prosemark-sub000/application/commands/handlers"
	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/application/queries"
	querybus "github.com/eykd/prosemark-sub000/application/queries/bus"
	queries_handlers "github.com/eykd/prosemark-sub000/application/queries/handlers"
	"github.com/eykd/prosemark-sub000/application/services"
	domainconfig "github.com/eykd/prosemark-sub000/domain/config"
	"github.com/eykd/prosemark-sub000/infrastructure/config"
	"github.com/eykd/prosemark-sub000/infrastructure/identity"
	"github.com/eykd/prosemark-sub000/infrastructure/messaging"
	"github.com/eykd/prosemark-sub000/infrastructure/persistence/filesystem"
	"github.com/eykd/prosemark-sub000/pkg/observability"
)

// ServiceName labels metrics and spans
const ServiceName = "prosemark"

// ProvideLogger creates a logger for the configured environment and level.
// The cleanup flushes buffered entries.
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

// ProvideDomainConfig extracts the outline grammar settings
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.Domain()
}

// ProvideMetrics creates the metrics collector; nil when metrics are off
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(ServiceName)
}

// ProvideTracer creates a tracer on the global provider
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer(ServiceName)
}

// ProvideOutlineService creates the outline codec
func ProvideOutlineService(
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.OutlineService {
	return services.NewOutlineService(domainCfg, metrics, logger)
}

// ProvideBinderRepository creates the binder file repository
func ProvideBinderRepository(
	cfg *config.Config,
	codec *services.OutlineService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *filesystem.BinderRepository {
	return filesystem.NewBinderRepository(cfg.BinderPath(), codec, metrics, logger)
}

// ProvideIDGenerator creates the node id generator
func ProvideIDGenerator() ports.IDGenerator {
	return identity.NewUUIDv7Generator()
}

// ProvideEventDispatcher creates the local event dispatcher
func ProvideEventDispatcher(logger *zap.Logger) *messaging.EventDispatcher {
	return messaging.NewEventDispatcher(logger)
}

// ProvideHandlerDependencies gathers what the command handlers share
func ProvideHandlerDependencies(
	domainCfg *domainconfig.DomainConfig,
	repo ports.BinderRepository,
	ids ports.IDGenerator,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) commands_handlers.Dependencies {
	return commands_handlers.Dependencies{
		Config:     domainCfg,
		Repository: repo,
		IDs:        ids,
		Publisher:  publisher,
		Metrics:    metrics,
		Tracer:     tracer,
		Logger:     logger,
	}
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(deps commands_handlers.Dependencies, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	if err := commands_handlers.RegisterAll(commandBus, deps); err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repo ports.BinderRepository,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	tracing := querybus.NewTracingMiddleware(tracer)

	handler := queries_handlers.NewGetBinderStructureHandler(repo, logger)
	if err := queryBus.Register(queries.GetBinderStructureQuery{}, tracing.Wrap(handler)); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}
