package trip

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/live"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/metrics"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrEmployeeNotFound  = errors.New("employee not on trip")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTripNotStartable  = errors.New("trip cannot be started")
)

// Service owns trip lifecycle and per-passenger stop persistence.
// It implements sequencer.TripStore for the server-side callers.
type Service struct {
	db      *gorm.DB
	hub     *live.Hub
	metrics *metrics.Collector
}

func NewService(db *gorm.DB, hub *live.Hub, m *metrics.Collector) *Service {
	return &Service{db: db, hub: hub, metrics: m}
}

// Get loads a trip with its passenger stops in list order
func (s *Service) Get(ctx context.Context, tripID string) (*model.Trip, error) {
	var pg model.TripPG
	err := s.db.WithContext(ctx).
		Preload("Employees", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&pg, "id = ?", tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trip %s: %w", tripID, err)
	}
	return model.FromPG(&pg), nil
}

// Start transitions a trip to active. Starting an already active trip
// is a no-op; completed and cancelled trips cannot be started.
func (s *Service) Start(ctx context.Context, tripID string) (*model.Trip, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	switch trip.Status {
	case model.TripActive:
		return trip, nil
	case model.TripScheduled:
	default:
		return nil, fmt.Errorf("%w: trip is %s", ErrTripNotStartable, trip.Status)
	}

	err = s.db.WithContext(ctx).Model(&model.TripPG{}).
		Where("id = ? AND status = ?", tripID, string(model.TripScheduled)).
		Update("status", string(model.TripActive)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to start trip %s: %w", tripID, err)
	}

	trip.Status = model.TripActive
	if s.metrics != nil {
		s.metrics.TripsStarted.Inc()
	}
	s.broadcastStatus(tripID, model.TripActive)
	return trip, nil
}

// Complete transitions a trip to completed. Repeat calls are no-ops,
// so the transition happens exactly once.
func (s *Service) Complete(ctx context.Context, tripID string) (*model.Trip, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status == model.TripCompleted {
		return trip, nil
	}
	if trip.Status != model.TripActive {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidTransition, trip.Status)
	}

	result := s.db.WithContext(ctx).Model(&model.TripPG{}).
		Where("id = ? AND status = ?", tripID, string(model.TripActive)).
		Update("status", string(model.TripCompleted))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to complete trip %s: %w", tripID, result.Error)
	}

	trip.Status = model.TripCompleted
	if result.RowsAffected > 0 {
		if s.metrics != nil {
			s.metrics.TripsCompleted.Inc()
		}
		s.broadcastStatus(tripID, model.TripCompleted)
	}
	return trip, nil
}

// UpdateEmployeeStatus persists one passenger's stop confirmation.
// Transitions are validated forward-only so a desynchronized client
// can never reverse or skip a stop.
func (s *Service) UpdateEmployeeStatus(ctx context.Context, tripID, employeeID string, status model.StopStatus) error {
	var entry model.StopEntryPG
	err := s.db.WithContext(ctx).
		First(&entry, "trip_id = ? AND employee_id = ?", tripID, employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load stop entry: %w", err)
	}

	if !model.CanTransition(model.StopStatus(entry.Status), status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, entry.Status, status)
	}

	err = s.db.WithContext(ctx).Model(&entry).Update("status", string(status)).Error
	if err != nil {
		return fmt.Errorf("failed to persist stop status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.StopAdvances.WithLabelValues(string(status)).Inc()
	}
	return nil
}

// CompleteTrip adapts Complete to the sequencer.TripStore contract
func (s *Service) CompleteTrip(ctx context.Context, tripID string) error {
	_, err := s.Complete(ctx, tripID)
	return err
}

func (s *Service) broadcastStatus(tripID string, status model.TripStatus) {
	if s.hub == nil {
		return
	}
	ev, err := live.NewStatusEvent(live.EventTripStatus, tripID, map[string]string{
		"trip_id": tripID,
		"status":  string(status),
	})
	if err != nil {
		log.Printf("Error building status event for trip %s: %v", tripID, err)
		return
	}
	s.hub.Broadcast(ev)
}
