//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"appbuilder/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideStores,
	ProvideDocumentRepository,
	ProvideProjectRepository,
	ProvideEventPublisher,
	ProvideMetricsBackend,
	ProvideMetrics,
	ProvideTracer,
	ProvideInMemoryCache,
	ProvideCache,
	ProvideRateLimiter,
	ProvideHooks,
	ProvideSessionRegistry,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
