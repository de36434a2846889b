package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/token"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Peer is one authenticated live channel connection
type Peer struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	identity token.Identity

	mu     sync.Mutex
	closed bool
}

// NewPeer wraps an upgraded connection and starts its pumps
func NewPeer(hub *Hub, conn *websocket.Conn, identity token.Identity) *Peer {
	p := &Peer{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		identity: identity,
	}
	if hub.metrics != nil {
		hub.metrics.ConnectedPeers.Inc()
	}
	go p.writePump()
	go p.readPump()
	return p
}

// enqueue hands data to the write pump without blocking. Publishing is
// fire-and-forget: a slow consumer drops frames rather than stalling
// the room.
func (p *Peer) enqueue(data []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

func (p *Peer) readPump() {
	defer p.close()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("peer %s read error: %v", p.identity.UserID, err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("peer %s sent malformed frame: %v", p.identity.UserID, err)
			continue
		}
		p.handleFrame(frame)
	}
}

func (p *Peer) handleFrame(frame Frame) {
	switch frame.Action {
	case ActionJoinTrip:
		if frame.TripID != "" {
			p.hub.Join(RoomName(frame.TripID), p)
		}
	case ActionLeaveTrip:
		if frame.TripID != "" {
			p.hub.Leave(RoomName(frame.TripID), p)
		}
	case ActionDriverLocation:
		if frame.TripID == "" || frame.Location == nil {
			return
		}
		loc := model.TripLocation{
			TripID:   frame.TripID,
			DriverID: p.identity.UserID,
			Location: *frame.Location,
		}
		if loc.Location.CapturedAt.IsZero() {
			loc.Location.CapturedAt = time.Now()
		}
		if p.hub.OnDriverLocation != nil {
			p.hub.OnDriverLocation(loc)
		}
	default:
		log.Printf("peer %s sent unknown action %q", p.identity.UserID, frame.Action)
	}
}

func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case message, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (p *Peer) close() {
	p.hub.LeaveAll(p)

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.send)
	}
	p.mu.Unlock()

	p.conn.Close()
	if p.hub.metrics != nil {
		p.hub.metrics.ConnectedPeers.Dec()
	}
}
