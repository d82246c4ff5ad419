package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intake/internal/domain"
	"github.com/spec-kit/ticket-intake/internal/events"
	"github.com/spec-kit/ticket-intake/internal/relay"
	"github.com/spec-kit/ticket-intake/internal/repository"
)

// TicketService coordinates the submission pipeline: persist, announce,
// relay. Local persistence is the authority for "ticket accepted"; the relay
// outcome rides along in the result and never fails the submission.
type TicketService struct {
	tickets    repository.TicketRepository
	relayer    relay.Relayer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Relayer    relay.Relayer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		relayer:    deps.Relayer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Submit stores a validated submission and attempts the best-effort relay.
// A non-nil error means local persistence failed and nothing was relayed.
func (s *TicketService) Submit(ctx context.Context, input domain.TicketInput) (*domain.Ticket, relay.Result, error) {
	ticket, err := s.tickets.Create(ctx, input)
	if err != nil {
		return nil, relay.Result{}, err
	}

	s.publish(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Email:   ticket.Email,
		Subject: ticket.Subject,
	}))

	result := s.relayer.Relay(ctx, ticket)
	if result.Succeeded() {
		s.publish(ctx, events.NewEvent(events.EventTicketRelayed, ticket.ID, events.TicketRelayedPayload{
			IntercomTicketID: result.ExternalID,
		}))
	} else {
		s.logger.Warn("intercom relay failed",
			zap.Int64("ticket_id", ticket.ID),
			zap.Error(result.Err))
		s.publish(ctx, events.NewEvent(events.EventTicketRelayFailed, ticket.ID, events.TicketRelayFailedPayload{
			Reason: result.Err.Error(),
		}))
	}

	return ticket, result, nil
}

// GetTicket looks up a stored ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
