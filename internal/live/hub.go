package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/metrics"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// Bridge fans events out across server instances. Nil on single-node
// deployments; the hub then delivers locally.
type Bridge interface {
	Publish(ev Event) error
	Connected() bool
}

// Hub owns the per-trip rooms. Drivers publish into it, viewers
// subscribe; every delivery inside one room preserves publish order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Peer]bool

	bridge  Bridge
	metrics *metrics.Collector

	// OnDriverLocation is invoked for every sample a driver publishes
	// over the channel. Wired to the location service at startup.
	OnDriverLocation func(loc model.TripLocation)
}

func NewHub(m *metrics.Collector) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Peer]bool),
		metrics: m,
	}
}

// SetBridge attaches the cross-instance fan-out
func (h *Hub) SetBridge(b Bridge) {
	h.bridge = b
}

// Join subscribes a peer to a trip room
func (h *Hub) Join(room string, p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.rooms[room]
	if !ok {
		peers = make(map[*Peer]bool)
		h.rooms[room] = peers
		if h.metrics != nil {
			h.metrics.ActiveRooms.Inc()
		}
	}
	peers[p] = true
	log.Printf("peer %s joined %s", p.identity.UserID, room)
}

// Leave unsubscribes a peer from a trip room
func (h *Hub) Leave(room string, p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, p)
}

// LeaveAll removes a peer from every room it joined
func (h *Hub) LeaveAll(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.rooms {
		h.leaveLocked(room, p)
	}
}

func (h *Hub) leaveLocked(room string, p *Peer) {
	peers, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, member := peers[p]; !member {
		return
	}
	delete(peers, p)
	if len(peers) == 0 {
		delete(h.rooms, room)
		if h.metrics != nil {
			h.metrics.ActiveRooms.Dec()
		}
	}
}

// Broadcast delivers an event to its trip room. With a connected
// bridge the event goes through it so every instance's local room
// sees it; otherwise delivery is local only.
func (h *Hub) Broadcast(ev Event) {
	if h.bridge != nil && h.bridge.Connected() {
		if err := h.bridge.Publish(ev); err == nil {
			return
		}
		// Bridge write failed; fall through to local delivery so the
		// peers on this instance still see the event.
	}
	h.BroadcastLocal(ev)
}

// BroadcastLocal delivers an event to peers connected to this instance
func (h *Hub) BroadcastLocal(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshaling event for %s: %v", ev.TripID, err)
		return
	}

	room := RoomName(ev.TripID)
	start := time.Now()

	h.mu.RLock()
	peers := make([]*Peer, 0, len(h.rooms[room]))
	for p := range h.rooms[room] {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if !p.enqueue(data) {
			if h.metrics != nil {
				h.metrics.BroadcastErrs.Inc()
			}
		}
	}

	if h.metrics != nil {
		h.metrics.BroadcastDuration.Observe(time.Since(start).Seconds())
	}
}

// RoomSize reports the local subscriber count for a trip
func (h *Hub) RoomSize(tripID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[RoomName(tripID)])
}
