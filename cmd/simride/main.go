// README: Demo harness: runs one fully simulated trip and prints the evolving meter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"taximeter/internal/geo"
	"taximeter/internal/modules/fare"
	"taximeter/internal/modules/position"
	"taximeter/internal/modules/trip"
	"taximeter/internal/types"
)

func main() {
	var (
		tick     = flag.Duration("tick", 250*time.Millisecond, "simulator tick")
		leg      = flag.Duration("leg", 8*time.Second, "duration of each driving leg")
		pause    = flag.Duration("pause", 3*time.Second, "duration of the waiting stop")
		tripType = flag.String("trip-type", "normal", "trip type id from the catalog")
		subTrip  = flag.String("sub-trip", "", "sub-destination id (sub-trip routes only)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	sim := position.NewSimulator(
		types.Point{Lat: 11.5936, Lng: 37.3908},
		position.SimulatorConfig{Tick: *tick},
	)
	trips := trip.NewController(trip.Deps{
		Fares:     fare.NewService(nil),
		Estimator: geo.NewEstimator(nil, logger),
		Sim:       sim,
		Logger:    logger,
	}, trip.Config{})
	defer trips.Close()

	if _, err := trips.ToggleSimulation(); err != nil {
		fatal("enable simulation", err)
	}
	if err := trips.SelectTripType(*tripType); err != nil {
		fatal("select trip type", err)
	}
	if *subTrip != "" {
		if err := trips.SelectSubTrip(*subTrip); err != nil {
			fatal("select sub-destination", err)
		}
	}

	if err := trips.Start(context.Background()); err != nil {
		fatal("start trip", err)
	}
	fmt.Printf("trip started (%s)\n", *tripType)

	drive(trips, *leg)

	if err := trips.Pause(); err != nil {
		fatal("pause", err)
	}
	fmt.Printf("waiting %s...\n", *pause)
	time.Sleep(*pause)
	if err := trips.Resume(); err != nil {
		fatal("resume", err)
	}

	drive(trips, *leg)

	summary, err := trips.Stop()
	if err != nil {
		fatal("stop", err)
	}

	fmt.Println("\n== Summary ==")
	fmt.Printf("trip type: %s\n", summary.TripTypeName)
	fmt.Printf("distance:  %.2f km\n", summary.DistanceKm)
	fmt.Printf("waiting:   %ds\n", summary.WaitingSeconds)
	fmt.Printf("fare:      %s\n", summary.Cost)
}

func drive(trips *trip.Controller, d time.Duration) {
	deadline := time.After(d)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			snap := trips.Snapshot()
			fmt.Printf("  %.2f km  wait %3ds  fare %s\n",
				snap.State.DistanceKm, snap.State.WaitingSeconds, snap.State.Cost)
		}
	}
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
