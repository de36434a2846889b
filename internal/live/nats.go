package live

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/metrics"
)

const eventSubjectPattern = "trips.*.events"

// NATSBridge relays room events between server instances so a viewer
// connected anywhere sees the driver's samples.
type NATSBridge struct {
	nc  *nats.Conn
	hub *Hub
	sub *nats.Subscription
}

func NewNATSBridge(url string, hub *Hub, m *metrics.Collector) (*NATSBridge, error) {
	nc, err := nats.Connect(url,
		nats.Name("cabs-tracking"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSConnected.Set(0)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSConnected.Set(1)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSConnected.Set(0)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSConnected.Set(1)
	}

	b := &NATSBridge{nc: nc, hub: hub}
	b.sub, err = nc.Subscribe(eventSubjectPattern, b.handleMessage)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return b, nil
}

func (b *NATSBridge) handleMessage(msg *nats.Msg) {
	var ev Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		log.Printf("nats: dropping malformed event on %s: %v", msg.Subject, err)
		return
	}
	b.hub.BroadcastLocal(ev)
}

// Publish sends an event to every instance's local room, including our own
func (b *NATSBridge) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("trips.%s.events", subjectToken(ev.TripID))
	return b.nc.Publish(subject, data)
}

// Connected reports whether the NATS connection is up
func (b *NATSBridge) Connected() bool {
	return b.nc != nil && b.nc.IsConnected()
}

// Close drains and closes the connection
func (b *NATSBridge) Close() {
	if b.nc != nil {
		b.nc.Drain()
		b.nc.Close()
	}
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
