package livemap

import (
	"sync"
	"time"
)

// riseFraction splits the pulse cycle: the phase climbs over the first
// 60% and decays proportionally faster over the rest.
const riseFraction = 0.6

// Pulse is the looping "live" indicator. Its phase derives purely from
// wall-clock time elapsed since Start, so it keeps beating between
// samples, and resets to 0 the moment tracking turns off.
type Pulse struct {
	period time.Duration

	mu      sync.Mutex
	started time.Time
	active  bool
}

func NewPulse(period time.Duration) *Pulse {
	return &Pulse{period: period}
}

// Start begins the cycle at phase 0
func (p *Pulse) Start(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = now
	p.active = true
}

// Stop deactivates the pulse; the phase is 0 until the next Start
func (p *Pulse) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
}

// Active reports whether the pulse is running
func (p *Pulse) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Phase returns the envelope value in [0,1] for the given instant
func (p *Pulse) Phase(now time.Time) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return 0
	}

	elapsed := now.Sub(p.started) % p.period
	if elapsed < 0 {
		elapsed += p.period
	}
	frac := float64(elapsed) / float64(p.period)

	if frac < riseFraction {
		return frac / riseFraction
	}
	return 1 - (frac-riseFraction)/(1-riseFraction)
}
