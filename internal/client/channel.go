package client

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/live"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/model"
)

// ErrChannelDisconnected signals the transport is down. Callers switch
// to the REST fallback until the channel reconnects.
var ErrChannelDisconnected = errors.New("live channel disconnected")

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
	eventBuffer        = 128
)

// Channel is the client end of the live channel. It re-joins every
// previously subscribed trip room after a reconnect; missed events are
// recovered through REST history, never replayed by the server.
type Channel struct {
	url   string
	token string

	mu        sync.Mutex
	conn      *websocket.Conn
	joined    map[string]bool
	connected bool
	closed    bool

	events chan live.Event
	done   chan struct{}
}

func NewChannel(wsURL, token string) *Channel {
	return &Channel{
		url:    wsURL + "?token=" + token,
		token:  token,
		joined: make(map[string]bool),
		events: make(chan live.Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// Dial connects and starts the read/reconnect loop
func (c *Channel) Dial() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// Events delivers room events in per-trip publish order
func (c *Channel) Events() <-chan live.Event {
	return c.events
}

// Connected reports whether the transport is currently up
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Subscribe joins a trip room. The membership survives reconnects.
func (c *Channel) Subscribe(tripID string) error {
	c.mu.Lock()
	c.joined[tripID] = true
	c.mu.Unlock()
	return c.send(live.Frame{Action: live.ActionJoinTrip, TripID: tripID})
}

// Unsubscribe leaves a trip room
func (c *Channel) Unsubscribe(tripID string) error {
	c.mu.Lock()
	delete(c.joined, tripID)
	c.mu.Unlock()
	return c.send(live.Frame{Action: live.ActionLeaveTrip, TripID: tripID})
}

// PublishLocation emits a sample into the trip room. Fire-and-forget:
// no acknowledgement, safe at sampling frequency.
func (c *Channel) PublishLocation(tripID string, sample model.LocationSample) error {
	return c.send(live.Frame{
		Action:   live.ActionDriverLocation,
		TripID:   tripID,
		Location: &sample,
	})
}

// Close tears the channel down permanently
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.connected = false
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		conn.Close()
	}
}

func (c *Channel) send(frame live.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return ErrChannelDisconnected
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.connected = false
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			log.Printf("live channel dropped: %v", err)
			c.reconnect()
			return
		}

		var ev live.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("live channel: dropping malformed event: %v", err)
			continue
		}

		select {
		case c.events <- ev:
		default:
			// Viewer fell behind; the REST current-location fetch is
			// the recovery path, not an unbounded buffer.
		}
	}
}

func (c *Channel) reconnect() {
	delay := reconnectBaseDelay
	for {
		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			log.Printf("live channel reconnect failed: %v", err)
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.connected = true
		rooms := make([]string, 0, len(c.joined))
		for tripID := range c.joined {
			rooms = append(rooms, tripID)
		}
		c.mu.Unlock()

		// No server-side replay: re-join every room, then let the
		// caller reconcile through REST.
		for _, tripID := range rooms {
			if err := c.send(live.Frame{Action: live.ActionJoinTrip, TripID: tripID}); err != nil {
				log.Printf("live channel rejoin %s failed: %v", tripID, err)
			}
		}

		go c.readLoop(conn)
		return
	}
}
