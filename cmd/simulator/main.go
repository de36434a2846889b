package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/client"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/config"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/directions"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geo"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geocode"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/livemap"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/sequencer"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/token"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/tracker"
)

// arriveRadiusMeters is how close the simulated driver must get to the
// current target stop before confirming it.
const arriveRadiusMeters = 25

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "tracking backend base URL")
		wsURL     = flag.String("ws", "ws://localhost:8080/ws", "live channel URL")
		tripID    = flag.String("trip", "", "trip to drive (required)")
		driverID  = flag.String("driver", "sim-driver-1", "driver identity")
		speedKmh  = flag.Float64("speed", 35, "simulated speed in km/h")
	)
	flag.Parse()

	if *tripID == "" {
		log.Fatal("-trip is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	token.Init(cfg.JWTSecret)

	authToken, err := token.Generate(*driverID, "driver")
	if err != nil {
		log.Fatalf("Failed to generate driver token: %v", err)
	}

	rest := client.NewREST(*serverURL, authToken)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Println("Shutdown signal received, stopping simulation...")
		cancel()
	}()

	trip, err := rest.GetTrip(ctx, *tripID)
	if err != nil {
		log.Fatalf("Failed to load trip %s: %v", *tripID, err)
	}
	log.Printf("Driving %s trip %s with %d passengers", trip.TripType, trip.ID, len(trip.Employees))

	if trip.Status == model.TripScheduled {
		if err := rest.StartTrip(ctx, trip.ID); err != nil {
			log.Fatalf("Failed to start trip: %v", err)
		}
		log.Println("Trip started")
	}

	seq := sequencer.New(rest)
	steps := seq.Load(trip)

	channel := client.NewChannel(*wsURL, authToken)
	if err := channel.Dial(); err != nil {
		log.Printf("Live channel unavailable, location updates go over REST: %v", err)
	}
	defer channel.Close()

	drive(ctx, cfg, rest, channel, seq, trip, steps, *speedKmh/3.6)
}

func drive(ctx context.Context, cfg config.Config, rest *client.REST, channel *client.Channel,
	seq *sequencer.Sequencer, trip *model.Trip, steps []sequencer.RouteStep, speedMps float64) {

	path := make([]model.Coordinates, 0, len(steps))
	for _, s := range steps {
		path = append(path, s.Location)
	}

	sampler := tracker.NewSampler(tracker.NewSimulatedSource(path, speedMps, time.Second))
	samples, err := sampler.StartTracking(tracker.Options{HighAccuracy: true})
	if err != nil {
		log.Fatalf("Failed to start tracking: %v", err)
	}
	defer sampler.StopTracking()

	view := livemap.NewView()
	view.StartAnimation(func(phase float64) {})
	defer view.StopAnimation()

	addresses := geocode.NewCache(geocode.NewHTTPProvider(
		cfg.GeocodeBaseUrl, cfg.ProviderAPIKey, cfg.GeocodeRegion, cfg.GeocodeLanguage))

	refresher := directions.NewRefresher(
		directions.NewClient(cfg.DirectionsBaseUrl, cfg.ProviderAPIKey),
		config.RouteRefreshInterval)

	statsTicker := time.NewTicker(2 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case sample, ok := <-samples:
			if !ok {
				return
			}
			view.Ingest(sample)
			publish(ctx, rest, channel, trip.ID, sample)

			next, has := seq.NextStop(trip.ID)
			if !has {
				log.Println("All stops confirmed, trip finished")
				return
			}

			if route, refreshed, err := refresher.Refresh(ctx, sample.Coordinates, next.Location); err != nil {
				log.Printf("Route refresh failed, keeping previous route: %v", err)
			} else if refreshed {
				log.Printf("Route: %s, %s — %s", route.DistanceText, route.DurationText, route.FirstInstruction)
			}

			if geo.HaversineDistance(sample.Coordinates, next.Location) <= arriveRadiusMeters {
				confirmStop(ctx, seq, trip.ID, next)
			}

		case <-statsTicker.C:
			printStats(ctx, view, addresses, seq, trip.ID)
		}
	}
}

func publish(ctx context.Context, rest *client.REST, channel *client.Channel, tripID string, sample model.LocationSample) {
	if channel.Connected() {
		if err := channel.PublishLocation(tripID, sample); err == nil {
			return
		}
	}
	if err := rest.UpdateLocation(ctx, tripID, sample); err != nil {
		log.Printf("Location update failed on both paths: %v", err)
	}
}

func confirmStop(ctx context.Context, seq *sequencer.Sequencer, tripID string, step sequencer.RouteStep) {
	result, err := seq.Advance(ctx, tripID)
	if err != nil {
		log.Printf("Stop confirmation failed: %v", err)
		return
	}

	if result.StatusSet != "" {
		log.Printf("Confirmed %s for passenger %s", result.StatusSet, step.EmployeeID)
	} else {
		log.Printf("Reached office stop (%s)", step.Type)
	}
	if result.CompleteErr != nil {
		log.Printf("Trip complete failed, stop statuses kept: %v", result.CompleteErr)
	}
	if result.TripCompleted {
		log.Println("Trip completed")
	}
}

func printStats(ctx context.Context, view *livemap.View, addresses *geocode.Cache, seq *sequencer.Sequencer, tripID string) {
	var nextLoc *model.Coordinates
	if next, ok := seq.NextStop(tripID); ok {
		nextLoc = &next.Location
	}

	stats := view.Stats(nextLoc)
	line := ""
	if sample, ok := view.Current(); ok {
		addr, err := addresses.Resolve(ctx, sample.Coordinates.Lat, sample.Coordinates.Lng, geocode.PurposeCurrent)
		if err != nil {
			log.Printf("Reverse geocode failed, showing coordinates: %v", err)
		}
		line = addr
	}
	log.Printf("%d km/h %s | next stop %s (%s) | trace %s | %s",
		stats.SpeedKmh, stats.Compass, stats.NextStopDistance, stats.NextStopETA, stats.TraceKm, line)
}
