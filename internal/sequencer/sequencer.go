package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

var (
	// ErrAdvanceInFlight rejects a second advance for a trip while the
	// first is still persisting. The forward-only invariant depends on
	// at most one mutation in flight per trip.
	ErrAdvanceInFlight = errors.New("advance already in flight for trip")

	// ErrStatusPersistFailed aborts an advance; the pointer does not move
	ErrStatusPersistFailed = errors.New("stop status persist failed")

	// ErrTripUnknown means Load was never called for the trip
	ErrTripUnknown = errors.New("trip not loaded")

	// ErrTripFinished means every step is already complete
	ErrTripFinished = errors.New("trip already finished")
)

// TripStore persists stop confirmations and trip completion. The
// backend implements it directly against the database; driver clients
// implement it over REST.
type TripStore interface {
	UpdateEmployeeStatus(ctx context.Context, tripID, employeeID string, status model.StopStatus) error
	CompleteTrip(ctx context.Context, tripID string) error
}

// AdvanceResult reports what a single advance confirmed
type AdvanceResult struct {
	Step          RouteStep
	StatusSet     model.StopStatus // zero value for passenger-less office steps
	TripCompleted bool
	// CompleteErr carries a trip-complete failure separately: confirmed
	// stop statuses are never rolled back because of it.
	CompleteErr error
}

type tripState struct {
	steps        []RouteStep
	completeSent bool
	inFlight     bool
}

// Sequencer drives the ordered stop state machine for active trips.
// Each trip advances on explicit driver confirmation only.
type Sequencer struct {
	store TripStore

	mu    sync.Mutex
	trips map[string]*tripState
}

func New(store TripStore) *Sequencer {
	return &Sequencer{
		store: store,
		trips: make(map[string]*tripState),
	}
}

// Load (re)builds the step sequence for a trip from its current state
func (s *Sequencer) Load(trip *model.Trip) []RouteStep {
	steps := BuildRouteSteps(trip)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.ID] = &tripState{
		steps:        steps,
		completeSent: trip.Status == model.TripCompleted,
	}
	return steps
}

// Unload drops a trip's state on view teardown
func (s *Sequencer) Unload(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trips, tripID)
}

// Steps returns a copy of the trip's current step sequence
func (s *Sequencer) Steps(tripID string) ([]RouteStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.trips[tripID]
	if !ok {
		return nil, ErrTripUnknown
	}
	out := make([]RouteStep, len(st.steps))
	copy(out, st.steps)
	return out, nil
}

// NextStop returns the current target: the first incomplete step
func (s *Sequencer) NextStop(tripID string) (RouteStep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.trips[tripID]
	if !ok {
		return RouteStep{}, false
	}
	idx := firstIncomplete(st.steps)
	if idx < 0 {
		return RouteStep{}, false
	}
	return st.steps[idx], true
}

// Advance confirms the current target step. Passenger steps persist
// their new status first; the pointer moves only after the store
// accepts the write. When the last step completes, the trip-complete
// action is issued exactly once; its failure is reported via
// AdvanceResult.CompleteErr without undoing the confirmed step.
func (s *Sequencer) Advance(ctx context.Context, tripID string) (AdvanceResult, error) {
	s.mu.Lock()
	st, ok := s.trips[tripID]
	if !ok {
		s.mu.Unlock()
		return AdvanceResult{}, ErrTripUnknown
	}
	if st.inFlight {
		s.mu.Unlock()
		return AdvanceResult{}, ErrAdvanceInFlight
	}
	idx := firstIncomplete(st.steps)
	if idx < 0 {
		// Idempotent on repeated calls once everything is done
		if st.completeSent {
			s.mu.Unlock()
			return AdvanceResult{TripCompleted: true}, ErrTripFinished
		}
	}
	st.inFlight = true
	var step RouteStep
	if idx >= 0 {
		step = st.steps[idx]
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		st.inFlight = false
		s.mu.Unlock()
	}()

	result := AdvanceResult{Step: step}

	if idx >= 0 {
		if step.EmployeeID != "" {
			status := step.NextStatus()
			if err := s.store.UpdateEmployeeStatus(ctx, tripID, step.EmployeeID, status); err != nil {
				return AdvanceResult{}, fmt.Errorf("%w: %v", ErrStatusPersistFailed, err)
			}
			result.StatusSet = status
		}

		s.mu.Lock()
		st.steps[idx].Completed = true
		remaining := firstIncomplete(st.steps)
		s.mu.Unlock()

		if remaining >= 0 {
			return result, nil
		}
	}

	// All steps confirmed; transition the trip itself
	s.mu.Lock()
	alreadySent := st.completeSent
	s.mu.Unlock()
	if alreadySent {
		result.TripCompleted = true
		return result, nil
	}

	if err := s.store.CompleteTrip(ctx, tripID); err != nil {
		result.CompleteErr = err
		return result, nil
	}

	s.mu.Lock()
	st.completeSent = true
	s.mu.Unlock()
	result.TripCompleted = true
	return result, nil
}
