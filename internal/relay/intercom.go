package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-intake/internal/config"
	"github.com/spec-kit/ticket-intake/internal/domain"
)

// Result is the two-outcome report of a relay attempt. Exactly one of
// ExternalID and Err is meaningful: a nil Err means the external service
// accepted the ticket and assigned ExternalID.
type Result struct {
	ExternalID string
	Err        error
}

// Succeeded reports whether the external service accepted the ticket.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Relayer forwards a created ticket to an external ticketing system. The
// attempt is best-effort: callers treat any failure as a soft outcome and
// never roll back local persistence.
type Relayer interface {
	Relay(ctx context.Context, ticket *domain.Ticket) Result
}

// ErrNotConfigured marks a relay attempt made without credentials.
var ErrNotConfigured = errors.New("intercom relay not configured")

// IntercomClient relays tickets to the Intercom tickets API.
type IntercomClient struct {
	cfg    config.IntercomConfig
	client *http.Client
	logger *zap.Logger
}

// NewIntercomClient builds a client with a bounded per-call timeout.
func NewIntercomClient(cfg config.IntercomConfig, logger *zap.Logger) *IntercomClient {
	return &IntercomClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type intercomTicketPayload struct {
	TicketTypeID string              `json:"ticket_type_id"`
	Contacts     []intercomContact   `json:"contacts"`
	Attributes   intercomTicketAttrs `json:"ticket_attributes"`
}

type intercomContact struct {
	Email string `json:"email"`
}

type intercomTicketAttrs struct {
	Title       string `json:"_default_title_"`
	Description string `json:"_default_description_"`
}

type intercomTicketResponse struct {
	ID string `json:"id"`
}

// Relay sends the ticket to Intercom. First attempt only; no retry.
func (c *IntercomClient) Relay(ctx context.Context, ticket *domain.Ticket) Result {
	if !c.cfg.Configured() {
		return Result{Err: ErrNotConfigured}
	}

	payload := intercomTicketPayload{
		TicketTypeID: c.cfg.TicketTypeID,
		Contacts:     []intercomContact{{Email: ticket.Email}},
		Attributes: intercomTicketAttrs{
			Title:       ticket.Subject,
			Description: fmt.Sprintf("Client ID: %s\n\n%s", ticket.ClientID, ticket.Message),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Err: fmt.Errorf("encode intercom payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/tickets", bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("build intercom request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Intercom-Version", c.cfg.APIVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("intercom request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{Err: fmt.Errorf("intercom responded %d: %s", resp.StatusCode, snippet)}
	}

	var created intercomTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Result{Err: fmt.Errorf("decode intercom response: %w", err)}
	}
	if created.ID == "" {
		return Result{Err: errors.New("intercom response missing ticket id")}
	}

	c.logger.Debug("ticket relayed to intercom",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("intercom_ticket_id", created.ID))
	return Result{ExternalID: created.ID}
}
