package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/slotbook/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name("slotbook-bookings"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

// Ready reports whether the connection is currently usable.
func (n *NATSEventBus) Ready(context.Context) error {
	if !n.conn.IsConnected() {
		return fmt.Errorf("nats: status %s", n.conn.Status())
	}
	return nil
}

func (n *NATSEventBus) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
	return nil
}

// NopBus discards events. It is used when no broker is configured.
type NopBus struct{}

func (NopBus) Publish(context.Context, string, any) error { return nil }
func (NopBus) Close() error                               { return nil }

const (
	BookingCreated  = "booking.created"
	ScheduleUpdated = "schedule.updated"
	FormCreated     = "form.created"
	FormUpdated     = "form.updated"
	FormDeleted     = "form.deleted"
	FormToggled     = "form.toggled"

	CustomerCreated = "customer.created"
	CustomerUpdated = "customer.updated"
	CustomerDeleted = "customer.deleted"
)

type BookingCreatedEvent struct {
	BookingID  string    `json:"booking_id"`
	FormID     string    `json:"form_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Date       string    `json:"date"`
	TimeSlot   string    `json:"time_slot"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

type ScheduleUpdatedEvent struct {
	EnabledDays []string  `json:"enabled_days"`
	TotalSlots  int       `json:"total_slots"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FormEvent struct {
	FormID    string    `json:"form_id"`
	Title     string    `json:"title,omitempty"`
	IsActive  bool      `json:"is_active"`
	ChangedAt time.Time `json:"changed_at"`
}

// CustomerEvent carries no contact details; consumers look the customer up.
type CustomerEvent struct {
	CustomerID string    `json:"customer_id"`
	ChangedAt  time.Time `json:"changed_at"`
}
