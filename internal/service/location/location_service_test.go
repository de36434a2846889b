package location

import (
	"testing"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/live"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

func tripLocation(tripID string, lat float64, at time.Time) model.TripLocation {
	return model.TripLocation{
		TripID:   tripID,
		DriverID: "drv-1",
		Location: model.LocationSample{
			Coordinates: model.Coordinates{Lat: lat, Lng: 77.6},
			CapturedAt:  at,
		},
	}
}

func TestHandleUpdate_LatestCaptureWins(t *testing.T) {
	s := NewService(live.NewHub(nil), nil)
	base := time.Now()

	s.HandleUpdate(tripLocation("trip-1", 12.90, base))
	s.HandleUpdate(tripLocation("trip-1", 12.91, base.Add(time.Second)))

	// A stale REST fallback write arriving after the channel sample
	s.HandleUpdate(tripLocation("trip-1", 12.80, base.Add(-time.Second)))

	loc, ok := s.current.Get("trip-1")
	if !ok {
		t.Fatal("no current location stored")
	}
	if loc.Location.Coordinates.Lat != 12.91 {
		t.Errorf("current lat = %f, want the newest sample's 12.91", loc.Location.Coordinates.Lat)
	}

	// The stale sample is not buffered for history either
	s.pendingMu.Lock()
	pending := len(s.pending)
	s.pendingMu.Unlock()
	if pending != 2 {
		t.Errorf("pending history = %d samples, want 2", pending)
	}
}

func TestHandleUpdate_DefaultsZeroCaptureTime(t *testing.T) {
	s := NewService(live.NewHub(nil), nil)

	s.HandleUpdate(model.TripLocation{
		TripID:   "trip-1",
		DriverID: "drv-1",
		Location: model.LocationSample{Coordinates: model.Coordinates{Lat: 12.9, Lng: 77.6}},
	})

	loc, ok := s.current.Get("trip-1")
	if !ok || loc.Location.CapturedAt.IsZero() {
		t.Error("zero capture time not defaulted on ingest")
	}
}

func TestHandleUpdate_TripsAreIndependent(t *testing.T) {
	s := NewService(live.NewHub(nil), nil)
	base := time.Now()

	s.HandleUpdate(tripLocation("trip-1", 12.90, base.Add(time.Hour)))
	s.HandleUpdate(tripLocation("trip-2", 13.00, base))

	// trip-2's older timestamp must not be compared against trip-1's
	if _, ok := s.current.Get("trip-2"); !ok {
		t.Error("second trip's sample rejected")
	}
}

func TestForget(t *testing.T) {
	s := NewService(live.NewHub(nil), nil)
	s.HandleUpdate(tripLocation("trip-1", 12.90, time.Now()))

	s.Forget("trip-1")
	if _, ok := s.current.Get("trip-1"); ok {
		t.Error("location survived Forget")
	}
}
