package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grassandaxe/booking-wizard/cmd/mainconfig"
	"github.com/grassandaxe/booking-wizard/internal/api/router"
	"github.com/grassandaxe/booking-wizard/internal/app/bootstrap"
	"github.com/grassandaxe/booking-wizard/internal/availability"
	"github.com/grassandaxe/booking-wizard/internal/catalog"
	appconfig "github.com/grassandaxe/booking-wizard/internal/config"
	"github.com/grassandaxe/booking-wizard/internal/draft"
	"github.com/grassandaxe/booking-wizard/internal/http/handlers"
	"github.com/grassandaxe/booking-wizard/internal/notify"
	"github.com/grassandaxe/booking-wizard/internal/observability/metrics"
	"github.com/grassandaxe/booking-wizard/internal/wizard"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

func main() {
	// Local development keeps secrets in .env; deployed builds use the environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking wizard API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"draft_backend", cfg.DraftBackend,
		"email_provider", cfg.EmailProvider,
	)

	ctx := context.Background()
	metricsHandler, wizardMetrics := setupMetrics()

	svc, err := buildWizard(ctx, cfg, logger, wizardMetrics)
	if err != nil {
		logger.Error("failed to build booking wizard", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	r := router.New(&router.Config{
		Logger:             logger,
		Metrics:            wizardMetrics,
		WizardHandler:      handlers.NewWizardHandler(svc, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		Done:               done,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	close(done)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a private registry carrying the wizard metrics plus the
// standard Go and process collectors.
func setupMetrics() (http.Handler, *metrics.WizardMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), metrics.NewWizardMetrics(reg)
}

// buildWizard wires the catalog, draft store, availability source and
// confirmation emails into a wizard service.
func buildWizard(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.WizardMetrics) (*wizard.Service, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	var awsCfg aws.Config
	if bootstrap.NeedsAWS(cfg) {
		awsCfg, err = mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
	}

	repo, err := bootstrap.BuildDraftRepository(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}

	sender, provider := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	logger.Info("confirmation email provider selected", "provider", provider)
	notifier := notify.NewService(sender, notify.ServiceConfig{
		BusinessName: cfg.EmailFromName,
		OfficeInbox:  cfg.OfficeInbox,
	}, logger)

	return wizard.NewService(wizard.Options{
		Store:        draft.NewStore(repo, logger, m),
		Catalog:      &cat,
		Availability: availability.NewRandomSource(cfg.SlotUnavailableRate, cfg.SlotSeed),
		Notifier:     notifier,
		Metrics:      m,
		Logger:       logger,
		Location:     cfg.Location(),
	}), nil
}
