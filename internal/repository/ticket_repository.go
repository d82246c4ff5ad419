package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/ticket-intake/internal/domain"
)

// ErrNotFound is returned by GetByID when no ticket has the given id.
var ErrNotFound = errors.New("ticket not found")

// TicketRepository encapsulates ticket persistence. Create assigns the next
// identifier and the creation timestamp; identifiers start at 1, are strictly
// increasing and never reused within a process run.
type TicketRepository interface {
	Create(ctx context.Context, input domain.TicketInput) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	Count(ctx context.Context) (int, error)
}

// MemoryTicketRepository keeps tickets in process memory. It is the default
// backend: no persistence across restarts, no eviction, no capacity limit.
type MemoryTicketRepository struct {
	mu      sync.Mutex
	tickets map[int64]domain.Ticket
	nextID  int64
}

// NewMemoryTicketRepository returns an empty in-memory repository.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{
		tickets: make(map[int64]domain.Ticket),
		nextID:  1,
	}
}

// Create assigns the next id, stamps the creation time and stores the ticket.
// The increment and insert happen under one lock so concurrent submissions
// never collide on an id.
func (r *MemoryTicketRepository) Create(ctx context.Context, input domain.TicketInput) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket := domain.Ticket{
		ID:        r.nextID,
		Email:     input.Email,
		ClientID:  input.ClientID,
		Subject:   input.Subject,
		Message:   input.Message,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.tickets[ticket.ID] = ticket

	out := ticket
	return &out, nil
}

// GetByID returns a copy of the stored ticket or ErrNotFound.
func (r *MemoryTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := ticket
	return &out, nil
}

// Count returns the number of stored tickets.
func (r *MemoryTicketRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets), nil
}
