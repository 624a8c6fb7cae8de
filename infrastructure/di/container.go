package di

import (
	"go.uber.org/zap"

	"appbuilder/application/commands/bus"
	"appbuilder/application/ports"
	querybus "appbuilder/application/queries/bus"
	"appbuilder/application/services"
	"appbuilder/infrastructure/config"
	"appbuilder/pkg/extensions"
	"appbuilder/pkg/observability"
	"appbuilder/pkg/ratelimit"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Stores     *Stores
	Publisher  ports.EventPublisher
	Metrics    *MetricsBackend
	Tracer     *observability.Tracer
	Cache      ports.Cache
	Limiter    *ratelimit.IPLimiter
	Hooks      *extensions.HookManager
	Registry   *services.SessionRegistry
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}
