// README: Entry point; loads config, wires the meter core, starts the HTTP adapter.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taximeter/internal/config"
	"taximeter/internal/geo"
	httptransport "taximeter/internal/http"
	"taximeter/internal/maps"
	"taximeter/internal/modules/fare"
	"taximeter/internal/modules/position"
	"taximeter/internal/modules/trip"
	"taximeter/internal/types"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The maps enhancer is optional: without an API key (or on a client
	// error) the meter runs on haversine distances and skips addresses.
	enhancer, err := maps.NewEnhancer(cfg.Maps.APIKey)
	if err != nil {
		logger.Warn("maps enhancer disabled", "error", err)
		enhancer = nil
	}
	if enhancer != nil && !enhancer.Ready() {
		logger.Info("maps enhancer not configured; using haversine distances")
	}

	fares := fare.NewService(nil)
	device := position.NewDeviceSource()
	sim := position.NewSimulator(
		types.Point{Lat: cfg.Sim.StartLat, Lng: cfg.Sim.StartLng},
		position.SimulatorConfig{
			Tick:      time.Duration(cfg.Sim.TickSeconds) * time.Second,
			MinStepKm: cfg.Sim.MinStepKm,
			MaxStepKm: cfg.Sim.MaxStepKm,
		},
	)

	var estimator *geo.Estimator
	var geocoder trip.Geocoder
	if enhancer != nil {
		estimator = geo.NewEstimator(enhancer, logger)
		geocoder = enhancer
	} else {
		estimator = geo.NewEstimator(nil, logger)
	}

	trips := trip.NewController(trip.Deps{
		Fares:     fares,
		Estimator: estimator,
		Geocoder:  geocoder,
		Live:      device,
		Sim:       sim,
		Logger:    logger,
	}, trip.Config{AccuracyLimitM: cfg.Meter.AccuracyLimitM})
	defer trips.Close()

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httptransport.NewServer(httptransport.ServerDeps{
			Trips:          trips,
			Device:         device,
			Logger:         logger,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}).Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("taximeter listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "error", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler)
	if host, err := os.Hostname(); err == nil {
		logger = logger.With("host", host)
	}
	return logger.With("service", "taximeter")
}
