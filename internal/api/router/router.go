package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/grassandaxe/booking-wizard/internal/http/handlers"
	httpmiddleware "github.com/grassandaxe/booking-wizard/internal/http/middleware"
	"github.com/grassandaxe/booking-wizard/internal/observability/metrics"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Metrics            *metrics.WizardMetrics
	WizardHandler      *handlers.WizardHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP rate limit; zero RateLimitRPS disables it.
	RateLimitRPS   float64
	RateLimitBurst int
	// Done stops background sweepers when closed.
	Done <-chan struct{}
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.Metrics))

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(api chi.Router) {
		if cfg.RateLimitRPS > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Done))
		}
		if cfg.WizardHandler != nil {
			api.Get("/catalog", cfg.WizardHandler.GetCatalog)
			api.Mount("/wizard", cfg.WizardHandler.Routes())
		}
	})

	return r
}
