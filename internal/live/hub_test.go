package live

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/token"
)

// testPeer builds a peer without pumps; frames land in its send channel
func testPeer(h *Hub, userID string, buffer int) *Peer {
	return &Peer{
		hub:      h,
		send:     make(chan []byte, buffer),
		identity: token.Identity{UserID: userID, Role: "employee"},
	}
}

type fakeBridge struct {
	connected bool
	err       error
	published []Event
}

func (b *fakeBridge) Publish(ev Event) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, ev)
	return nil
}

func (b *fakeBridge) Connected() bool { return b.connected }

func locationEvent(t *testing.T, tripID string, lat float64) Event {
	t.Helper()
	ev, err := NewLocationEvent(model.TripLocation{
		TripID:   tripID,
		DriverID: "drv-1",
		Location: model.LocationSample{
			Coordinates: model.Coordinates{Lat: lat, Lng: 77.6},
			CapturedAt:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	return ev
}

func TestHub_JoinLeaveRoomLifecycle(t *testing.T) {
	h := NewHub(nil)
	a := testPeer(h, "user-a", 1)
	b := testPeer(h, "user-b", 1)
	room := RoomName("trip-1")

	h.Join(room, a)
	h.Join(room, b)
	if got := h.RoomSize("trip-1"); got != 2 {
		t.Fatalf("room size = %d, want 2", got)
	}

	// Double join is idempotent
	h.Join(room, a)
	if got := h.RoomSize("trip-1"); got != 2 {
		t.Errorf("room size after double join = %d, want 2", got)
	}

	h.Leave(room, a)
	if got := h.RoomSize("trip-1"); got != 1 {
		t.Errorf("room size after leave = %d, want 1", got)
	}

	// Leaving a room you are not in is a no-op
	h.Leave(room, a)
	if got := h.RoomSize("trip-1"); got != 1 {
		t.Errorf("room size after repeated leave = %d, want 1", got)
	}

	h.LeaveAll(b)
	if got := h.RoomSize("trip-1"); got != 0 {
		t.Errorf("room size after last leave = %d, want 0", got)
	}
}

func TestHub_BroadcastLocalDeliversInOrder(t *testing.T) {
	h := NewHub(nil)
	p := testPeer(h, "viewer", 8)
	h.Join(RoomName("trip-1"), p)

	for i := 0; i < 3; i++ {
		h.BroadcastLocal(locationEvent(t, "trip-1", 12.9+float64(i)))
	}

	for i := 0; i < 3; i++ {
		data := <-p.send
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
		var loc model.TripLocation
		if err := json.Unmarshal(ev.Payload, &loc); err != nil {
			t.Fatalf("payload %d: %v", i, err)
		}
		if loc.Location.Coordinates.Lat != 12.9+float64(i) {
			t.Errorf("delivery %d out of order: lat %f", i, loc.Location.Coordinates.Lat)
		}
	}
}

func TestHub_BroadcastScopedToRoom(t *testing.T) {
	h := NewHub(nil)
	inRoom := testPeer(h, "viewer-1", 1)
	elsewhere := testPeer(h, "viewer-2", 1)
	h.Join(RoomName("trip-1"), inRoom)
	h.Join(RoomName("trip-2"), elsewhere)

	h.BroadcastLocal(locationEvent(t, "trip-1", 12.9))

	if len(inRoom.send) != 1 {
		t.Errorf("room member got %d events, want 1", len(inRoom.send))
	}
	if len(elsewhere.send) != 0 {
		t.Errorf("other room got %d events, want 0", len(elsewhere.send))
	}
}

func TestHub_BroadcastPrefersConnectedBridge(t *testing.T) {
	h := NewHub(nil)
	bridge := &fakeBridge{connected: true}
	h.SetBridge(bridge)

	p := testPeer(h, "viewer", 1)
	h.Join(RoomName("trip-1"), p)

	h.Broadcast(locationEvent(t, "trip-1", 12.9))

	if len(bridge.published) != 1 {
		t.Fatalf("bridge got %d events, want 1", len(bridge.published))
	}
	// Local delivery happens when the bridge echoes back, not here
	if len(p.send) != 0 {
		t.Errorf("peer got %d direct deliveries, want 0", len(p.send))
	}
}

func TestHub_BroadcastFallsBackWhenBridgeFails(t *testing.T) {
	h := NewHub(nil)
	h.SetBridge(&fakeBridge{connected: true, err: errors.New("broker write failed")})

	p := testPeer(h, "viewer", 1)
	h.Join(RoomName("trip-1"), p)

	h.Broadcast(locationEvent(t, "trip-1", 12.9))
	if len(p.send) != 1 {
		t.Errorf("peer got %d events after bridge failure, want local fallback of 1", len(p.send))
	}
}

func TestHub_BroadcastLocalWhenBridgeDisconnected(t *testing.T) {
	h := NewHub(nil)
	h.SetBridge(&fakeBridge{connected: false})

	p := testPeer(h, "viewer", 1)
	h.Join(RoomName("trip-1"), p)

	h.Broadcast(locationEvent(t, "trip-1", 12.9))
	if len(p.send) != 1 {
		t.Errorf("peer got %d events with disconnected bridge, want 1", len(p.send))
	}
}

func TestPeer_EnqueueDropsWhenFull(t *testing.T) {
	h := NewHub(nil)
	p := testPeer(h, "slow-viewer", 1)

	if !p.enqueue([]byte("one")) {
		t.Fatal("first enqueue rejected")
	}
	// Slow consumer: buffer is full, the frame is dropped, not blocked on
	if p.enqueue([]byte("two")) {
		t.Error("second enqueue accepted past buffer capacity")
	}
}

func TestPeer_EnqueueAfterCloseIsRejected(t *testing.T) {
	h := NewHub(nil)
	p := testPeer(h, "viewer", 1)

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	if p.enqueue([]byte("late")) {
		t.Error("enqueue accepted on closed peer")
	}
}

func TestHandleFrame_DriverLocation(t *testing.T) {
	h := NewHub(nil)
	var got model.TripLocation
	h.OnDriverLocation = func(loc model.TripLocation) { got = loc }

	driver := testPeer(h, "drv-9", 1)
	driver.handleFrame(Frame{
		Action: ActionDriverLocation,
		TripID: "trip-1",
		Location: &model.LocationSample{
			Coordinates: model.Coordinates{Lat: 12.9, Lng: 77.6},
		},
	})

	if got.TripID != "trip-1" {
		t.Fatalf("trip = %q, want trip-1", got.TripID)
	}
	// The driver identity comes from the authenticated connection, never
	// from the frame body
	if got.DriverID != "drv-9" {
		t.Errorf("driver = %q, want drv-9", got.DriverID)
	}
	if got.Location.CapturedAt.IsZero() {
		t.Error("zero capture time not defaulted")
	}
}

func TestHandleFrame_IgnoresIncompleteLocation(t *testing.T) {
	h := NewHub(nil)
	called := false
	h.OnDriverLocation = func(model.TripLocation) { called = true }

	driver := testPeer(h, "drv-9", 1)
	driver.handleFrame(Frame{Action: ActionDriverLocation, TripID: "trip-1"})
	driver.handleFrame(Frame{Action: ActionDriverLocation, Location: &model.LocationSample{}})

	if called {
		t.Error("incomplete location frame reached the location handler")
	}
}

func TestHandleFrame_JoinAndLeave(t *testing.T) {
	h := NewHub(nil)
	p := testPeer(h, "viewer", 1)

	p.handleFrame(Frame{Action: ActionJoinTrip, TripID: "trip-1"})
	if h.RoomSize("trip-1") != 1 {
		t.Error("join frame did not subscribe the peer")
	}

	p.handleFrame(Frame{Action: ActionLeaveTrip, TripID: "trip-1"})
	if h.RoomSize("trip-1") != 0 {
		t.Error("leave frame did not unsubscribe the peer")
	}

	// Empty trip IDs are ignored
	p.handleFrame(Frame{Action: ActionJoinTrip})
	if len(h.rooms) != 0 {
		t.Error("join frame without trip created a room")
	}
}
