package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"appbuilder/application/commands/bus"
	querybus "appbuilder/application/queries/bus"
	"appbuilder/interfaces/http/rest/handlers"
	"appbuilder/interfaces/http/rest/middleware"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/observability"
)

// Options tune the router. Zero values disable the optional parts.
type Options struct {
	AllowedOrigins []string
	EnableCORS     bool
	Debug          bool
	Tracer         *observability.Tracer
	// MetricsHandler is mounted at /metrics when set
	MetricsHandler http.Handler
	// Limiter throttles /api/v1 per client address when set
	Limiter middleware.ClientLimiter
	// Ready reports whether dependencies can serve requests
	Ready func(ctx context.Context) error
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
	opts       Options
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
	opts Options,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
		opts:       opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.opts.Tracer.Handler)

	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.MetricsHandler != nil {
		router.Handle("/metrics", rt.opts.MetricsHandler)
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)
	h := handlers.NewHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.AllowContentType("application/json"))
		r.Use(chimiddleware.Timeout(30 * time.Second))
		if rt.opts.Limiter != nil {
			r.Use(middleware.RateLimit(rt.opts.Limiter, errorHandler, rt.logger))
		}

		r.Get("/catalog/{kind}", h.Catalog)

		r.Post("/projects", h.CreateProject)
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/", h.GetProject)
			r.Get("/document", h.GetDocument)
			r.Put("/mode", h.SwitchMode)
			r.Put("/selection", h.Select)
			r.Post("/regenerate", h.Regenerate)
			r.Delete("/session", h.CloseSession)

			r.Route("/elements", func(r chi.Router) {
				r.Post("/", h.AddElement)
				r.Patch("/{elementID}", h.UpdateElement)
				r.Delete("/{elementID}", h.RemoveElement)
				r.Post("/{elementID}/move", h.MoveElement)
				r.Post("/{elementID}/resize", h.ResizeElement)
				r.Post("/{elementID}/duplicate", h.DuplicateElement)
				r.Get("/{elementID}/code", h.PreviewElement)
			})

			r.Route("/nodes", func(r chi.Router) {
				r.Post("/", h.AddNode)
				r.Patch("/{nodeID}", h.UpdateNode)
				r.Delete("/{nodeID}", h.RemoveNode)
			})

			r.Route("/edges", func(r chi.Router) {
				r.Post("/", h.Connect)
				r.Delete("/{edgeID}", h.Disconnect)
			})

			r.Post("/templates/{name}", h.ApplyTemplate)

			r.Route("/files", func(r chi.Router) {
				r.Post("/", h.AddFile)
				r.Put("/{fileID}", h.UpdateFile)
				r.Delete("/{fileID}", h.RemoveFile)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.opts.Ready != nil {
		if err := rt.opts.Ready(req.Context()); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
