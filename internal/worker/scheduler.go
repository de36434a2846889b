package worker

import (
	"log"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/service/location"
)

// StartAllWorkers initializes and starts all background workers
func StartAllWorkers(locationService *location.Service) {
	log.Println("Starting all workers...")

	StartLocationWorkers(locationService)

	log.Println("All workers started")
}
