package live

import (
	"encoding/json"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// EventType enumerates the room-scoped events viewers receive
type EventType string

const (
	EventLocationUpdate EventType = "location-update"
	EventTripStatus     EventType = "trip-status-update"
	EventDriverStatus   EventType = "driver-status-update"
)

// Client frame actions
const (
	ActionJoinTrip       = "join-trip"
	ActionLeaveTrip      = "leave-trip"
	ActionDriverLocation = "driver-location-update"
)

// Event is the typed envelope broadcast to a trip room. Delivery is
// FIFO within a room; nothing is guaranteed across rooms.
type Event struct {
	Type      EventType       `json:"type"`
	TripID    string          `json:"trip_id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Frame is an inbound client message: subscription control from
// viewers, location updates from the driver.
type Frame struct {
	Action   string                `json:"action"`
	TripID   string                `json:"trip_id"`
	Location *model.LocationSample `json:"location,omitempty"`
}

// RoomName addresses a trip's room. Structured scheme instead of
// bespoke per-trip event strings.
func RoomName(tripID string) string {
	return "trip:" + tripID
}

// NewLocationEvent wraps a trip location into its broadcast envelope
func NewLocationEvent(loc model.TripLocation) (Event, error) {
	payload, err := json.Marshal(loc)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      EventLocationUpdate,
		TripID:    loc.TripID,
		Payload:   payload,
		Timestamp: time.Now(),
	}, nil
}

// NewStatusEvent wraps a trip or driver status change
func NewStatusEvent(eventType EventType, tripID string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      eventType,
		TripID:    tripID,
		Payload:   raw,
		Timestamp: time.Now(),
	}, nil
}
