package livemap

import (
	"sync"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geo"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// Trace is the bounded traveled trail: the most recent samples,
// newest first. Older samples fall off the end once the bound is hit.
type Trace struct {
	mu     sync.Mutex
	points []model.LocationSample
	limit  int
}

func NewTrace(limit int) *Trace {
	return &Trace{limit: limit}
}

// Push prepends a sample and trims the trail to its bound
func (t *Trace) Push(sample model.LocationSample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.points = append([]model.LocationSample{sample}, t.points...)
	if len(t.points) > t.limit {
		t.points = t.points[:t.limit]
	}
}

// Points returns a copy of the trail, newest first
func (t *Trace) Points() []model.LocationSample {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.LocationSample, len(t.points))
	copy(out, t.points)
	return out
}

// Len returns the current trail length
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.points)
}

// TotalDistanceMeters sums consecutive haversine segments over the
// bounded trail. Samples evicted from the trail no longer count, so
// this under-counts long trips; the display has always worked that way.
func (t *Trace) TotalDistanceMeters() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0.0
	for i := 1; i < len(t.points); i++ {
		total += geo.HaversineDistance(t.points[i].Coordinates, t.points[i-1].Coordinates)
	}
	return total
}

// Reset clears the trail
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points = nil
}
