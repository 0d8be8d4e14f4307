package rest

import (
	"context"
	"net/http"
	"time"

	"retroboard/application/commands/bus"
	querybus "retroboard/application/queries/bus"
	"retroboard/interfaces/http/rest/handlers"
	"retroboard/interfaces/http/rest/middleware"
	"retroboard/pkg/common"
	appErrors "retroboard/pkg/errors"
	"retroboard/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether the service can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Options tune the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	Debug          bool           // include stack traces in error responses
	Ready          ReadinessCheck // nil means always ready
	RateLimit      int            // requests per minute per client on /api, 0 disables
	RateBurst      int
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	metrics    *observability.Collector
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil, which also
// disables the /metrics endpoint.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	metrics *observability.Collector,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		metrics:    metrics,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errorHandler := appErrors.NewErrorHandler(rt.logger, rt.opts.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(errorHandler.Middleware)
	if rt.metrics != nil {
		router.Use(rt.metrics.Middleware)
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if rt.opts.RateLimit > 0 {
			r.Use(middleware.NewRateLimiter(rt.opts.RateLimit, rt.opts.RateBurst, errorHandler).Handler)
		}

		retroHandler := handlers.NewRetroHandler(rt.commandBus, rt.queryBus, errorHandler, rt.metrics, rt.logger)

		r.Route("/retros", func(r chi.Router) {
			r.Post("/", retroHandler.Import)
			r.Post("/compare", retroHandler.Compare)
			r.Get("/metrics", retroHandler.GlobalMetrics)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	_ = common.RespondJSON(w, http.StatusOK, common.StatusResponse{Status: "healthy"})
}

// readinessCheck probes the storage backend
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := rt.opts.Ready(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			_ = common.RespondJSON(w, http.StatusServiceUnavailable, common.StatusResponse{
				Status: "unavailable",
				Error:  err.Error(),
			})
			return
		}
	}

	_ = common.RespondJSON(w, http.StatusOK, common.StatusResponse{Status: "ready"})
}
