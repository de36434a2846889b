package worker

import (
	"context"
	"log"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/config"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/service/location"
)

// StartLocationWorkers starts the persistence workers for live locations:
// a Redis flush for current positions and a MongoDB archive for history.
func StartLocationWorkers(svc *location.Service) {
	flushTicker := time.NewTicker(config.LocationFlushInterval)
	go func() {
		for range flushTicker.C {
			ctx, cancel := context.WithTimeout(context.Background(), config.RestFallbackTimeout)
			if err := svc.SaveDirtyToRedis(ctx); err != nil {
				log.Printf("Error saving locations to Redis: %v", err)
			}
			cancel()
		}
	}()

	archiveTicker := time.NewTicker(config.HistoryArchiveInterval)
	go func() {
		for range archiveTicker.C {
			ctx, cancel := context.WithTimeout(context.Background(), config.RestFallbackTimeout)
			if err := svc.ArchiveHistory(ctx); err != nil {
				log.Printf("Error archiving location history: %v", err)
			}
			cancel()
		}
	}()

	log.Println("Location workers started with intervals:",
		config.LocationFlushInterval, config.HistoryArchiveInterval)
}
