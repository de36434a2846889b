package config

import "time"

// Worker and client-side clock intervals
const (
	// LocationFlushInterval defines how often dirty live locations are flushed to Redis
	LocationFlushInterval = 5 * time.Second

	// HistoryArchiveInterval defines how often live locations are archived to MongoDB
	HistoryArchiveInterval = 20 * time.Second

	// RouteRefreshInterval bounds directions provider calls while navigating
	RouteRefreshInterval = 30 * time.Second

	// RestFallbackTimeout bounds the REST fallback location write/read
	RestFallbackTimeout = 10 * time.Second

	// PulsePeriod is the wall-clock period of the live pulse animation
	PulsePeriod = 2 * time.Second

	// FrameInterval is the animation loop cadence, independent of data arrival
	FrameInterval = 50 * time.Millisecond
)

// TracePathLimit bounds the rendered trail; older samples are evicted
const TracePathLimit = 49
