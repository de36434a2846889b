package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/live"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/metrics"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
	mongodb "github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/mongo"
	redisclient "github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/redis"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/storage"
)

const (
	locationRedisKey  = "trip_location"
	historyCollection = "location_history"
)

// Service holds the latest location per active trip and fans samples
// out to the trip room. Redis carries the current location across
// restarts; MongoDB keeps the append-only history log.
type Service struct {
	current storage.Storage[string, *model.TripLocation]
	hub     *live.Hub
	metrics *metrics.Collector

	pendingMu sync.Mutex
	pending   []model.TripLocation
}

func NewService(hub *live.Hub, m *metrics.Collector) *Service {
	s := &Service{
		current: storage.NewMemoryStorage[string, *model.TripLocation](),
		hub:     hub,
		metrics: m,
	}
	if hub != nil {
		hub.OnDriverLocation = s.HandleUpdate
	}
	return s
}

// HandleUpdate ingests one sample, from the channel or the REST
// fallback. The most recent capture timestamp wins when both paths
// deliver for the same trip.
func (s *Service) HandleUpdate(loc model.TripLocation) {
	if loc.Location.CapturedAt.IsZero() {
		loc.Location.CapturedAt = time.Now()
	}

	if existing, ok := s.current.Get(loc.TripID); ok {
		if !existing.Location.Newer(loc.Location) {
			return
		}
	}
	s.current.Set(loc.TripID, &loc)

	s.pendingMu.Lock()
	s.pending = append(s.pending, loc)
	s.pendingMu.Unlock()

	if s.metrics != nil {
		s.metrics.LocationUpdates.Inc()
	}

	ev, err := live.NewLocationEvent(loc)
	if err != nil {
		log.Printf("Error building location event for trip %s: %v", loc.TripID, err)
		return
	}
	s.hub.Broadcast(ev)
}

// Current returns the latest known location for a trip, falling back
// to Redis when this instance has not seen the trip yet.
func (s *Service) Current(ctx context.Context, tripID string) (*model.TripLocation, error) {
	if loc, ok := s.current.Get(tripID); ok {
		return loc, nil
	}

	data, err := redisclient.GetClient().Get(ctx, locationRedisKey+":"+tripID).Result()
	if err != nil {
		return nil, fmt.Errorf("no location for trip %s: %w", tripID, err)
	}

	var loc model.TripLocation
	if err := json.Unmarshal([]byte(data), &loc); err != nil {
		return nil, fmt.Errorf("corrupt location for trip %s: %w", tripID, err)
	}
	s.current.Set(tripID, &loc)
	s.current.ClearDirty([]string{tripID})
	return &loc, nil
}

// History returns the most recent samples for a trip, newest first
func (s *Service) History(ctx context.Context, tripID string, limit int) ([]model.TripLocation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "location.timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mongodb.Collection(historyCollection).Find(ctx, bson.M{"trip_id": tripID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for trip %s: %w", tripID, err)
	}
	defer cursor.Close(ctx)

	var history []model.TripLocation
	if err := cursor.All(ctx, &history); err != nil {
		return nil, fmt.Errorf("failed to decode history for trip %s: %w", tripID, err)
	}
	return history, nil
}

// SaveDirtyToRedis flushes changed current locations in one pipeline
func (s *Service) SaveDirtyToRedis(ctx context.Context) error {
	dirty := s.current.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	pipe := redisclient.GetClient().Pipeline()
	keys := make([]string, 0, len(dirty))

	for tripID, loc := range dirty {
		data, err := json.Marshal(loc)
		if err != nil {
			return err
		}
		pipe.Set(ctx, locationRedisKey+":"+tripID, data, 24*time.Hour)
		keys = append(keys, tripID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	// Clear flags only after successful save
	s.current.ClearDirty(keys)
	return nil
}

// ArchiveHistory appends buffered samples to the MongoDB history log
func (s *Service) ArchiveHistory(ctx context.Context) error {
	s.pendingMu.Lock()
	batch := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	docs := make([]interface{}, len(batch))
	for i, loc := range batch {
		docs[i] = loc
	}

	if _, err := mongodb.Collection(historyCollection).InsertMany(ctx, docs); err != nil {
		// Put the batch back so the next archive pass retries it
		s.pendingMu.Lock()
		s.pending = append(batch, s.pending...)
		s.pendingMu.Unlock()
		return err
	}

	log.Printf("Archived %d location samples to MongoDB", len(batch))
	return nil
}

// Forget drops a trip's live location after completion
func (s *Service) Forget(tripID string) {
	s.current.Delete(tripID)
}
