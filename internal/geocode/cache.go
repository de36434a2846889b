package geocode

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/storage"
)

// PurposeCurrent marks a lookup for the driver's own position; it fires
// the transient notification hook on resolution.
const PurposeCurrent = "current"

// NotifyDuration bounds the transient address notification
const NotifyDuration = 3500 * time.Millisecond

// resolvedMinLen is the shortest address we treat as a real street
// address rather than a bare locality or grid code.
const resolvedMinLen = 12

// plusCodePattern matches open location code fragments such as
// "7J4V5H2R+2M" that providers return for unnamed places.
var plusCodePattern = regexp.MustCompile(`[23456789CFGHJMPQRVWX]{4,8}\+[23456789CFGHJMPQRVWX]{2,}`)

// Entry is a memoized reverse-geocode result
type Entry struct {
	Address  string
	CachedAt time.Time
}

// Notifier receives the resolved address for "current" lookups.
// Display-only; implementations must not block.
type Notifier func(address string, duration time.Duration)

// Metrics is the optional instrumentation hook for the cache
type Metrics interface {
	GeocodeLookupInc()
	GeocodeCacheHitInc()
}

// Cache memoizes reverse-geocode lookups keyed by quantized
// coordinates and coalesces concurrent lookups for the same key.
// Lifetime is the owning session; there is no eviction.
type Cache struct {
	provider Provider
	store    storage.Storage[string, Entry]
	group    singleflight.Group
	notify   Notifier
	metrics  Metrics
}

func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		store:    storage.NewMemoryStorage[string, Entry](),
	}
}

// WithNotifier sets the transient notification hook
func (c *Cache) WithNotifier(n Notifier) *Cache {
	c.notify = n
	return c
}

// WithMetrics sets the instrumentation hook
func (c *Cache) WithMetrics(m Metrics) *Cache {
	c.metrics = m
	return c
}

// Key quantizes coordinates to 5 decimal digits (~1m) so bursty
// samples from the same spot share one cache slot.
func Key(lat, lng float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lng)
}

// Resolve returns a human-readable address for the coordinates. On
// provider failure the formatted coordinates come back along with
// ErrGeocodeFailed, and nothing is cached so a later call may retry.
func (c *Cache) Resolve(ctx context.Context, lat, lng float64, purpose string) (string, error) {
	key := Key(lat, lng)

	if entry, ok := c.store.Get(key); ok && isResolved(entry.Address) {
		if c.metrics != nil {
			c.metrics.GeocodeCacheHitInc()
		}
		c.maybeNotify(purpose, entry.Address)
		return entry.Address, nil
	}

	// One outstanding provider call per key regardless of caller count
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if entry, ok := c.store.Get(key); ok && isResolved(entry.Address) {
			return entry.Address, nil
		}
		if c.metrics != nil {
			c.metrics.GeocodeLookupInc()
		}
		candidates, err := c.provider.ReverseGeocode(ctx, lat, lng)
		if err != nil {
			return nil, err
		}
		address := pickBest(candidates)
		if address == "" {
			return nil, fmt.Errorf("%w: no usable address", ErrGeocodeFailed)
		}
		c.storeBetter(key, address)
		return address, nil
	})
	if err != nil {
		return fmt.Sprintf("%.4f, %.4f", lat, lng), err
	}

	address := v.(string)
	c.maybeNotify(purpose, address)
	return address, nil
}

// storeBetter overwrites an entry only with a strictly better address:
// longer and free of plus-code fragments.
func (c *Cache) storeBetter(key, address string) {
	if existing, ok := c.store.Get(key); ok {
		if len(address) <= len(existing.Address) && !plusCodePattern.MatchString(existing.Address) {
			return
		}
	}
	c.store.Set(key, Entry{Address: address, CachedAt: time.Now()})
}

func (c *Cache) maybeNotify(purpose, address string) {
	if purpose == PurposeCurrent && c.notify != nil {
		c.notify(address, NotifyDuration)
	}
}

// pickBest chooses the longest candidate without a plus-code fragment,
// provider order breaking ties.
func pickBest(candidates []string) string {
	best := ""
	for _, addr := range candidates {
		if plusCodePattern.MatchString(addr) {
			continue
		}
		if len(addr) > len(best) {
			best = addr
		}
	}
	return best
}

func isResolved(address string) bool {
	return len(address) >= resolvedMinLen && !plusCodePattern.MatchString(address)
}
