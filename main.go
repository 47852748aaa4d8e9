package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egannguyen/go-car-showroom/internal/config"
	"github.com/egannguyen/go-car-showroom/internal/controller"
	httpDelivery "github.com/egannguyen/go-car-showroom/internal/delivery/http"
	"github.com/egannguyen/go-car-showroom/internal/messaging"
	"github.com/egannguyen/go-car-showroom/internal/metrics"
	"github.com/egannguyen/go-car-showroom/internal/repository/memory"
	"github.com/egannguyen/go-car-showroom/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("SHOWROOM_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logger, cfg.LogLevel())
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Preferences ---
	prefs, err := openPreferenceStore(ctx, cfg.Preferences)
	if err != nil {
		slog.Error("Failed to open preference store", "backend", cfg.Preferences.Backend, "err", err)
		os.Exit(1)
	}
	defer prefs.Close()

	// --- Broker ---
	var publisher messaging.Publisher
	if b := openBroker(cfg.Broker, logger); b != nil {
		defer b.Close()
		publisher = b
		startActivityLog(ctx, b)
		slog.Info("🔄 Activity consumers started", "broker", cfg.Broker.Type)
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(reg)

	// --- Showroom ---
	svc := service.NewShowroomService(memory.NewCarRepository(), memory.NewPurchaseRepository(), publisher)
	if cfg.Seed {
		if err := svc.Seed(ctx, service.DefaultCars()); err != nil {
			slog.Error("Failed to seed cars", "err", err)
			os.Exit(1)
		}
	}

	ctrl := controller.NewController(svc, prefs, publisher, recorder)
	if err := ctrl.Init(ctx); err != nil {
		slog.Error("Failed to init controller", "err", err)
		os.Exit(1)
	}

	// --- HTTP API ---
	mux := http.NewServeMux()
	httpDelivery.NewHandler(ctrl).RegisterRoutes(mux)
	if cfg.HTTP.Metrics {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpDelivery.EnableCORS(mux),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("🚀 HTTP server starting", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "err", err)
	}
}

func newLogger(cfg config.LoggerConfig, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
