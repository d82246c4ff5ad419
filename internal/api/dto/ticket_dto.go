package dto

import (
	"time"

	"github.com/spec-kit/ticket-intake/internal/domain"
	"github.com/spec-kit/ticket-intake/internal/relay"
)

// TicketResponse is the wire shape of a created or fetched ticket. After a
// submission exactly one of IntercomTicketID and IntercomError is set,
// reflecting the relay outcome; plain lookups carry neither.
type TicketResponse struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	ClientID         string    `json:"clientId"`
	Subject          string    `json:"subject"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"createdAt"`
	IntercomTicketID string    `json:"intercomTicketId,omitempty"`
	IntercomError    string    `json:"intercomError,omitempty"`
}

// NewTicketResponse maps a stored ticket without relay information.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        ticket.ID,
		Email:     ticket.Email,
		ClientID:  ticket.ClientID,
		Subject:   ticket.Subject,
		Message:   ticket.Message,
		CreatedAt: ticket.CreatedAt,
	}
}

// NewSubmissionResponse maps a created ticket plus its relay outcome.
func NewSubmissionResponse(ticket *domain.Ticket, result relay.Result) TicketResponse {
	resp := NewTicketResponse(ticket)
	if result.Succeeded() {
		resp.IntercomTicketID = result.ExternalID
	} else {
		resp.IntercomError = result.Err.Error()
	}
	return resp
}
