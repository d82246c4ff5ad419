package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-intake/internal/domain"
)

// PostgresTicketRepository stores tickets in postgres. Identifier assignment
// is delegated to a BIGSERIAL column, which preserves the strictly-increasing
// id contract.
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository instantiates the repository.
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

// Create inserts the ticket and reads back the assigned id and timestamp.
func (r *PostgresTicketRepository) Create(ctx context.Context, input domain.TicketInput) (*domain.Ticket, error) {
	const query = `
        INSERT INTO tickets (email, client_id, subject, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	ticket := domain.Ticket{
		Email:    input.Email,
		ClientID: input.ClientID,
		Subject:  input.Subject,
		Message:  input.Message,
	}
	err := r.pool.QueryRow(ctx, query,
		input.Email,
		input.ClientID,
		input.Subject,
		input.Message,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetByID fetches one ticket by primary key.
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, email, client_id, subject, message, created_at
        FROM tickets WHERE id = $1`

	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Email,
		&ticket.ClientID,
		&ticket.Subject,
		&ticket.Message,
		&ticket.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Count returns the number of stored tickets.
func (r *PostgresTicketRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
