package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketRelayed     EventType = "ticket_relayed"
	EventTicketRelayFailed EventType = "ticket_relay_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a fresh event for the given ticket.
func NewEvent(eventType EventType, ticketID int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// TicketRelayedPayload payload.
type TicketRelayedPayload struct {
	IntercomTicketID string `json:"intercom_ticket_id"`
}

// TicketRelayFailedPayload payload.
type TicketRelayFailedPayload struct {
	Reason string `json:"reason"`
}
