package directions

import (
	"context"
	"sync"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// Router is the route-requesting dependency of Refresher
type Router interface {
	Route(ctx context.Context, origin, destination model.Coordinates) (Route, error)
}

// Refresher rate-limits route recalculation to a bounded interval so
// provider quota is not spent on every location sample. The previous
// route is retained across throttled calls and provider failures.
type Refresher struct {
	router   Router
	interval time.Duration
	clock    func() time.Time

	mu        sync.Mutex
	lastFetch time.Time
	current   Route
	hasRoute  bool
}

func NewRefresher(router Router, interval time.Duration) *Refresher {
	return &Refresher{
		router:   router,
		interval: interval,
		clock:    time.Now,
	}
}

// Refresh returns the current route, recalculating only if the refresh
// interval has elapsed. The second return reports whether a provider
// call was made. On failure the previous route is returned with the
// error so the caller can show a transient notice.
func (r *Refresher) Refresh(ctx context.Context, origin, destination model.Coordinates) (Route, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	if r.hasRoute && now.Sub(r.lastFetch) < r.interval {
		return r.current, false, nil
	}

	route, err := r.router.Route(ctx, origin, destination)
	if err != nil {
		return r.current, false, err
	}

	r.current = route
	r.hasRoute = true
	r.lastFetch = now
	return route, true, nil
}

// Current returns the last successfully fetched route, if any
func (r *Refresher) Current() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.hasRoute
}

// Reset clears route state, forcing the next Refresh to call the provider
func (r *Refresher) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Route{}
	r.hasRoute = false
	r.lastFetch = time.Time{}
}
