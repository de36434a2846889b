package livemap

import (
	"math"
	"sync"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/config"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/geo"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// Stats is the per-frame readout derived from the latest sample
type Stats struct {
	SpeedKmh         int
	AccuracyM        float64
	Compass          string
	NextStopDistance string
	NextStopETA      string
	TraceKm          string
}

// View is the live map state for one watched trip. It merges samples
// from the channel and the REST fallback (latest capture timestamp
// wins), keeps the bounded trace, and owns the animation loop — a
// clock entirely decoupled from data arrival.
type View struct {
	trace *Trace
	pulse *Pulse

	mu        sync.Mutex
	current   model.LocationSample
	hasSample bool

	frameInterval time.Duration
	stopFrames    chan struct{}
	frameDone     sync.WaitGroup
	running       bool
}

func NewView() *View {
	return &View{
		trace:         NewTrace(config.TracePathLimit),
		pulse:         NewPulse(config.PulsePeriod),
		frameInterval: config.FrameInterval,
	}
}

// Ingest merges one sample regardless of delivery path. Samples older
// than the displayed one are discarded.
func (v *View) Ingest(sample model.LocationSample) bool {
	v.mu.Lock()
	if v.hasSample && !v.current.Newer(sample) {
		v.mu.Unlock()
		return false
	}
	v.current = sample
	v.hasSample = true
	v.mu.Unlock()

	v.trace.Push(sample)
	return true
}

// Current returns the displayed sample
func (v *View) Current() (model.LocationSample, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.hasSample
}

// Trace exposes the bounded trail
func (v *View) Trace() *Trace {
	return v.trace
}

// Pulse exposes the animation envelope
func (v *View) Pulse() *Pulse {
	return v.pulse
}

// StartAnimation begins the frame loop. onFrame receives the pulse
// phase on every tick; it runs until StopAnimation.
func (v *View) StartAnimation(onFrame func(phase float64)) {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return
	}
	v.running = true
	v.stopFrames = make(chan struct{})
	stop := v.stopFrames
	v.mu.Unlock()

	v.pulse.Start(time.Now())

	v.frameDone.Add(1)
	go func() {
		defer v.frameDone.Done()

		ticker := time.NewTicker(v.frameInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				onFrame(v.pulse.Phase(now))
			}
		}
	}()
}

// StopAnimation halts the frame loop synchronously and resets the
// pulse. Must run on view teardown and on tracking-off so no perpetual
// timer leaks past the view.
func (v *View) StopAnimation() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	v.running = false
	close(v.stopFrames)
	v.mu.Unlock()

	v.frameDone.Wait()
	v.pulse.Stop()
}

// Reset clears all view state for reuse with another trip
func (v *View) Reset() {
	v.StopAnimation()
	v.trace.Reset()

	v.mu.Lock()
	v.current = model.LocationSample{}
	v.hasSample = false
	v.mu.Unlock()
}

// Stats derives the display readout for the current sample and the
// next stop, when one remains.
func (v *View) Stats(nextStop *model.Coordinates) Stats {
	v.mu.Lock()
	sample := v.current
	hasSample := v.hasSample
	v.mu.Unlock()

	stats := Stats{
		NextStopDistance: "--",
		NextStopETA:      "--",
		TraceKm:          geo.FormatDistanceKm(v.trace.TotalDistanceMeters()),
	}
	if !hasSample {
		return stats
	}

	stats.SpeedKmh = int(math.Round(sample.SpeedMps * 3.6))
	stats.AccuracyM = sample.AccuracyM
	stats.Compass = geo.CompassPoint(sample.BearingDeg)

	if nextStop != nil {
		dist := geo.HaversineDistance(sample.Coordinates, *nextStop)
		stats.NextStopDistance = geo.FormatDistanceKm(dist)
		stats.NextStopETA = geo.FormatETA(geo.ETAMinutes(dist, sample.SpeedMps))
	}
	return stats
}
