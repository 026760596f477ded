package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicasonrisa/dashboard-api/internal/api/router"
	"github.com/clinicasonrisa/dashboard-api/internal/app/bootstrap"
	"github.com/clinicasonrisa/dashboard-api/internal/appointments"
	"github.com/clinicasonrisa/dashboard-api/internal/billing"
	appconfig "github.com/clinicasonrisa/dashboard-api/internal/config"
	"github.com/clinicasonrisa/dashboard-api/internal/goals"
	"github.com/clinicasonrisa/dashboard-api/internal/inventory"
	"github.com/clinicasonrisa/dashboard-api/internal/observability/metrics"
	"github.com/clinicasonrisa/dashboard-api/internal/patients"
	"github.com/clinicasonrisa/dashboard-api/internal/reminders"
	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

func main() {
	// Load .env in development; ignore absence in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dashboard API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pool, err := bootstrap.BuildPgxPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Metrics registry with process and Go runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulerMetrics := metrics.NewSchedulerMetrics(registry)

	// Repositories and services.
	patientRepo := patients.NewPostgresRepository(pool)
	apptStore := appointments.NewPostgresStore(pool)
	scheduler := appointments.NewScheduler(apptStore, patientRepo, logger, schedulerMetrics, time.Local)

	goalsCache := bootstrap.BuildGoalsCache(redisClient, cfg)
	goalsService := goals.NewService(goals.NewPostgresRepository(pool), goalsCache, logger)

	// Completing an appointment changes goal progress; drop the cached
	// aggregate so the next read recomputes.
	scheduler.SetCompletionListener(goalsService.InvalidateCurrent)

	billingStore := billing.NewStore(pool)
	reminderStore := reminders.NewStore(pool)
	inventoryStore := inventory.NewStore(pool)

	// Handlers.
	patientsHandler := patients.NewHandler(patientRepo, logger)
	appointmentsHandler := appointments.NewHandler(scheduler, apptStore, logger)
	goalsHandler := goals.NewHandler(goalsService, logger)
	billingHandler := billing.NewHandler(billingStore, logger)
	remindersHandler := reminders.NewHandler(reminderStore, logger)
	inventoryHandler := inventory.NewHandler(inventoryStore, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		PatientsHandler:     patientsHandler,
		AppointmentsHandler: appointmentsHandler,
		GoalsHandler:        goalsHandler,
		BillingHandler:      billingHandler,
		RemindersHandler:    remindersHandler,
		InventoryHandler:    inventoryHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		StaffJWTSecret:      cfg.StaffJWTSecret,
		CORSAllowedOrigins:  bootstrap.SplitOrigins(cfg.CORSAllowedOrigins),
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
