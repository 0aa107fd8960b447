package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/jshop/jshop/internal/config"
	"github.com/jshop/jshop/internal/database"
	idempostgres "github.com/jshop/jshop/internal/idempotency/postgres"
	"github.com/jshop/jshop/internal/notification"
	"github.com/jshop/jshop/internal/payment"
	"github.com/jshop/jshop/internal/scheduler"
	"github.com/jshop/jshop/internal/shipment"
	httpadapter "github.com/jshop/jshop/internal/shop/adapters/http"
	shoppostgres "github.com/jshop/jshop/internal/shop/adapters/postgres"
	"github.com/jshop/jshop/internal/shop/app"
	shopmetrics "github.com/jshop/jshop/internal/shop/metrics"
	"github.com/jshop/jshop/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	meter := otel.Meter(cfg.Service.Name)

	m, err := shopmetrics.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create lifecycle metrics: %w", err)
	}

	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create http metrics: %w", err)
	}

	repos := app.Repositories{
		Carts:     shoppostgres.NewCartRepository(pool),
		Orders:    shoppostgres.NewOrderRepository(pool),
		Stock:     shoppostgres.NewStockRepository(pool),
		Customers: shoppostgres.NewCustomerRepository(pool),
	}
	collab := app.Collaborators{
		Catalog:  shoppostgres.NewCatalog(pool),
		Notifier: notification.NewLogMailer(logger),
		Payment:  payment.NewStubAuthorizer(logger),
		Shipment: shipment.NewLogDispatcher(logger),
	}

	service := app.NewService(
		repos,
		collab,
		idempostgres.NewStore(pool),
		shoppostgres.NewTransactor(pool),
		logger,
		m,
	)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(func(next http.Handler) http.Handler {
		return httpadapter.WithMetrics(next, httpMetrics)
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	httpadapter.NewHandler(service).Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(
			service,
			repos.Carts,
			repos.Orders,
			repos.Customers,
			collab.Notifier,
			cfg.Scheduler.Interval,
			logger,
			m,
		)
		g.Go(func() error {
			logger.Info("scheduler starting", "interval", cfg.Scheduler.Interval)
			if err := sched.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("scheduler: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	})

	return g.Wait()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
