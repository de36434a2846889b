package tracker

import (
	"context"
	"sync"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// Sampler wraps a PositionSource into the driver-side sampling clock.
// A sampling failure stores its message and leaves the last known good
// sample untouched: stale-but-valid data beats no data.
type Sampler struct {
	source PositionSource

	mu        sync.Mutex
	cancel    context.CancelFunc
	lastKnown *model.LocationSample
	lastErr   string
}

func NewSampler(source PositionSource) *Sampler {
	return &Sampler{source: source}
}

// StartTracking begins an unbounded subscription. Emitted samples
// arrive on the returned channel, which closes when tracking stops.
// Calling StartTracking while tracking replaces the subscription.
func (s *Sampler) StartTracking(opts Options) (<-chan model.LocationSample, error) {
	s.StopTracking()

	ctx, cancel := context.WithCancel(context.Background())
	readings, err := s.source.Watch(ctx, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	out := make(chan model.LocationSample)
	go func() {
		defer close(out)
		for r := range readings {
			if r.Err != nil {
				s.mu.Lock()
				s.lastErr = r.Err.Error()
				s.mu.Unlock()
				continue
			}

			s.mu.Lock()
			sample := r.Sample
			s.lastKnown = &sample
			s.lastErr = ""
			s.mu.Unlock()

			select {
			case out <- r.Sample:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// StopTracking cancels the subscription; safe to call repeatedly
func (s *Sampler) StopTracking() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Tracking reports whether a subscription is active
func (s *Sampler) Tracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// CurrentPosition resolves a single sample
func (s *Sampler) CurrentPosition(ctx context.Context, opts Options) (model.LocationSample, error) {
	sample, err := s.source.Current(ctx, opts)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return model.LocationSample{}, err
	}

	s.mu.Lock()
	s.lastKnown = &sample
	s.lastErr = ""
	s.mu.Unlock()
	return sample, nil
}

// LastKnown returns the most recent good sample, if any
func (s *Sampler) LastKnown() (model.LocationSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastKnown == nil {
		return model.LocationSample{}, false
	}
	return *s.lastKnown, true
}

// LastError returns the stored sampling error message, empty after a
// successful emission
func (s *Sampler) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
