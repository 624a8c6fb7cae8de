package rest

import (
	"context"
	"net/http"

	"appbuilder/application/queries"
	"appbuilder/infrastructure/di"
)

// RouterOptions derives router options from a wired container
func RouterOptions(c *di.Container) Options {
	var metricsHandler http.Handler
	if c.Metrics != nil && c.Metrics.Prometheus != nil {
		metricsHandler = c.Metrics.Prometheus.Handler()
	}
	opts := Options{
		AllowedOrigins: c.Config.AllowedOrigins,
		EnableCORS:     c.Config.EnableCORS,
		Debug:          c.Config.IsDevelopment(),
		Tracer:         c.Tracer,
		MetricsHandler: metricsHandler,
		Ready: func(ctx context.Context) error {
			// Catalog queries touch no storage
			_, err := c.QueryBus.Ask(ctx, queries.CatalogQuery{Kind: queries.CatalogLanguages})
			return err
		},
	}
	if c.Limiter != nil {
		opts.Limiter = c.Limiter
	}
	return opts
}
