package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

var (
	// ErrPermissionDenied means the device refused location access.
	// Tracking stays off until the user resolves it.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrPositionUnavailable means the device has no fix right now
	ErrPositionUnavailable = errors.New("position unavailable")
)

// Options configures a tracking subscription. Only these fields are
// honored; unknown options do not exist by construction.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxSampleAge time.Duration
}

// Reading is one emission from a position source: a sample or a
// transient failure. Failures are self-healing; the source keeps
// watching without an explicit retry loop here.
type Reading struct {
	Sample model.LocationSample
	Err    error
}

// PositionSource abstracts the device's continuous position API
type PositionSource interface {
	// Watch emits readings until ctx is cancelled. The stream is lazy,
	// unbounded and not restartable; call Watch again for a new one.
	Watch(ctx context.Context, opts Options) (<-chan Reading, error)

	// Current resolves a single sample or fails with
	// ErrPermissionDenied / ErrPositionUnavailable.
	Current(ctx context.Context, opts Options) (model.LocationSample, error)
}
