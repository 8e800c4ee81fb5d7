//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/infrastructure/config"
	"github.com/eykd/prosemark-sub000/infrastructure/messaging"
	"github.com/eykd/prosemark-sub000/infrastructure/persistence/filesystem"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideTracer,
	ProvideOutlineService,
	ProvideBinderRepository,
	wire.Bind(new(ports.BinderRepository), new(*filesystem.BinderRepository)),
	ProvideIDGenerator,
	ProvideEventDispatcher,
	wire.Bind(new(ports.EventPublisher), new(*messaging.EventDispatcher)),
	ProvideHandlerDependencies,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
