// internal/adapter/notify/notifier.go

package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Change describes a mutation of the canonical event set. Connected
// clients use it as a cue to refetch their candidate list.
type Change struct {
	Reason string    `json:"reason"`
	IDs    []string  `json:"ids,omitempty"`
	At     time.Time `json:"at"`
}

// Notifier broadcasts event-change notifications.
type Notifier interface {
	// EventsChanged announces that the canonical event set changed
	EventsChanged(change Change) error
}

// NATSNotifier publishes change notifications on a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier creates a new NATS-backed notifier
func NewNATSNotifier(conn *nats.Conn, subject string) *NATSNotifier {
	return &NATSNotifier{
		conn:    conn,
		subject: subject,
	}
}

// EventsChanged announces that the canonical event set changed
func (n *NATSNotifier) EventsChanged(change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("error marshaling change: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("error publishing change: %w", err)
	}
	return nil
}

// NopNotifier discards notifications. Used in tests and when running
// without a message bus.
type NopNotifier struct{}

// EventsChanged discards the notification
func (NopNotifier) EventsChanged(Change) error { return nil }
