package di

import (
	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/commands/bus"
	querybus "github.com/eykd/prosemark-sub000/application/queries/bus"
	"github.com/eykd/prosemark-sub000/application/services"
	domainconfig "github.com/eykd/prosemark-sub000/domain/config"
	"github.com/eykd/prosemark-sub000/infrastructure/config"
	"github.com/eykd/prosemark-sub000/infrastructure/messaging"
	"github.com/eykd/prosemark-sub000/infrastructure/persistence/filesystem"
	"github.com/eykd/prosemark-sub000/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Domain     *domainconfig.DomainConfig
	Metrics    *observability.Collector
	Outline    *services.OutlineService
	Repository *filesystem.BinderRepository
	Events     *messaging.EventDispatcher
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}
