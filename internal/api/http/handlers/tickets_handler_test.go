package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-intake/internal/api/http"
	"github.com/spec-kit/ticket-intake/internal/api/http/handlers"
	"github.com/spec-kit/ticket-intake/internal/auth"
	"github.com/spec-kit/ticket-intake/internal/domain"
	"github.com/spec-kit/ticket-intake/internal/observability"
	"github.com/spec-kit/ticket-intake/internal/relay"
	"github.com/spec-kit/ticket-intake/internal/repository"
	"github.com/spec-kit/ticket-intake/internal/service"
)

type stubRelayer struct {
	result relay.Result
}

func (s stubRelayer) Relay(ctx context.Context, ticket *domain.Ticket) relay.Result {
	return s.result
}

type testEnv struct {
	app    *fiber.App
	repo   *repository.MemoryTicketRepository
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T, relayer relay.Relayer) *testEnv {
	t.Helper()

	repo := repository.NewMemoryTicketRepository()
	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Relayer:    relayer,
		Logger:     zap.NewNop(),
	})

	tokens := auth.NewTokenManager("test-secret", 5)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Tickets:        handlers.NewTicketsHandler(svc),
		AuthMiddleware: auth.NewMiddleware(tokens),
	})

	return &testEnv{app: app, repo: repo, tokens: tokens}
}

func (e *testEnv) post(t *testing.T, body string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

const validBody = `{"email":"a@b.com","clientId":"123","subject":"Login issue","message":"I cannot log in to my account"}`

func TestCreateTicket(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	resp, body := env.post(t, validBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "123", body["clientId"])
	assert.Equal(t, "ic-1", body["intercomTicketId"])
	assert.NotContains(t, body, "intercomError")
	assert.NotEmpty(t, body["createdAt"])
}

func TestCreateTicketRelayFailure(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{Err: errors.New("intercom unreachable")}})

	resp, body := env.post(t, validBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, "intercom unreachable", body["intercomError"])
	assert.NotContains(t, body, "intercomTicketId")

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateTicketInvalidEmail(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	resp, body := env.post(t, `{"email":"not-an-email","clientId":"123","subject":"X","message":"short msg ok length"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please enter a valid email address", body["message"])

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateTicketShortMessage(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	resp, body := env.post(t, `{"email":"a@b.com","clientId":"123","subject":"X","message":"short"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message must be at least 10 characters", body["message"])
}

func TestCreateTicketMissingClientID(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	resp, body := env.post(t, `{"email":"a@b.com","subject":"X","message":"long enough message"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Client ID is required", body["message"])
}

func TestCreateTicketMalformedBody(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	resp, body := env.post(t, `{"email":`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to create ticket", body["message"])

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateTicketNotIdempotent(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	_, first := env.post(t, validBody)
	_, second := env.post(t, validBody)

	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, float64(2), second["id"])

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetTicketRequiresToken(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})
	env.post(t, validBody)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/1", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetTicketWithToken(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})
	env.post(t, validBody)

	token, _, err := env.tokens.GenerateToken("ops")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["id"])
	assert.NotContains(t, body, "intercomTicketId")
	assert.NotContains(t, body, "intercomError")
}

func TestGetTicketNotFound(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	token, _, err := env.tokens.GenerateToken("ops")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/99", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetSchema(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/schema", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fields, ok := body["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 4)

	first, ok := fields[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "email", first["name"])
	assert.Equal(t, "Please enter a valid email address", first["message"])
}

func TestServeForm(t *testing.T) {
	env := newTestEnv(t, stubRelayer{result: relay.Result{ExternalID: "ic-1"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Contains(t, string(raw), "Submit Support Ticket")
}
