package domain

import "time"

// TicketInput carries the validated fields of a ticket submission before a
// storage identifier has been assigned.
type TicketInput struct {
	Email    string `json:"email"`
	ClientID string `json:"clientId"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// Ticket is a stored support request. ID and CreatedAt are assigned by the
// repository at creation time and never change afterwards.
type Ticket struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	ClientID  string    `json:"clientId"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
