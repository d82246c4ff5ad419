package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intake/internal/api/dto"
	"github.com/spec-kit/ticket-intake/internal/repository"
	"github.com/spec-kit/ticket-intake/internal/schema"
	"github.com/spec-kit/ticket-intake/internal/service"
	apperrors "github.com/spec-kit/ticket-intake/pkg/util"
)

// TicketsHandler manages ticket submission and lookup endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets. Validation failures short-circuit before
// any mutation; once the ticket is stored the response is 201 regardless of
// the relay outcome.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return apperrors.NewInternal("Failed to create ticket", err)
	}

	input, verr := schema.Validate(raw)
	if verr != nil {
		return apperrors.NewValidationError(verr.Message)
	}

	ticket, result, err := h.service.Submit(c.UserContext(), input)
	if err != nil {
		return apperrors.NewInternal("Failed to create ticket", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewSubmissionResponse(ticket, result))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewNotFound("ticket")
	}

	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket")
		}
		return apperrors.NewInternal("Failed to fetch ticket", err)
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// GetSchema GET /api/tickets/schema. The browser form renders its inputs and
// client-side rules from this field list so both sides validate identically.
func (h *TicketsHandler) GetSchema(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"fields": schema.Fields()})
}
