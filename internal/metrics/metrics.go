package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the tracking server's Prometheus metrics
type Collector struct {
	reg *prometheus.Registry

	ActiveRooms    prometheus.Gauge
	ConnectedPeers prometheus.Gauge

	LocationUpdates  prometheus.Counter
	BroadcastErrs    prometheus.Counter
	GeocodeLookups   prometheus.Counter
	GeocodeCacheHits prometheus.Counter

	TripsStarted   prometheus.Counter
	TripsCompleted prometheus.Counter
	StopAdvances   *prometheus.CounterVec // status label: picked_up|dropped

	NATSConnected prometheus.Gauge

	BroadcastDuration prometheus.Histogram
}

// NewCollector creates and registers the metric set on its own registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracking_active_trip_rooms",
			Help: "Number of trip rooms with at least one subscriber.",
		}),
		ConnectedPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracking_connected_peers",
			Help: "Number of open live channel connections.",
		}),
		LocationUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_location_updates_total",
			Help: "Total location samples accepted (channel and REST).",
		}),
		BroadcastErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_broadcast_errors_total",
			Help: "Total failed event deliveries to subscribers.",
		}),
		GeocodeLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_geocode_lookups_total",
			Help: "Total outbound reverse-geocode provider calls.",
		}),
		GeocodeCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_geocode_cache_hits_total",
			Help: "Total reverse-geocode lookups served from cache.",
		}),
		TripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_trips_started_total",
			Help: "Total trips transitioned to active.",
		}),
		TripsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracking_trips_completed_total",
			Help: "Total trips transitioned to completed.",
		}),
		StopAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracking_stop_advances_total",
			Help: "Total passenger stop status transitions.",
		}, []string{"status"}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracking_nats_connected",
			Help: "1 if the NATS bridge connection is established.",
		}),
		BroadcastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracking_broadcast_duration_seconds",
			Help:    "Duration to fan an event out to a trip room.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	reg.MustRegister(
		c.ActiveRooms, c.ConnectedPeers,
		c.LocationUpdates, c.BroadcastErrs,
		c.GeocodeLookups, c.GeocodeCacheHits,
		c.TripsStarted, c.TripsCompleted, c.StopAdvances,
		c.NATSConnected,
		c.BroadcastDuration,
	)

	return c
}

// Handler exposes the registry for mounting on the API router
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// GeocodeLookupInc counts one outbound provider call
func (c *Collector) GeocodeLookupInc() {
	c.GeocodeLookups.Inc()
}

// GeocodeCacheHitInc counts one lookup served from cache
func (c *Collector) GeocodeCacheHitInc() {
	c.GeocodeCacheHits.Inc()
}
