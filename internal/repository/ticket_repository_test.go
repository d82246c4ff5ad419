package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-intake/internal/domain"
)

func sampleInput() domain.TicketInput {
	return domain.TicketInput{
		Email:    "a@b.com",
		ClientID: "123",
		Subject:  "Login issue",
		Message:  "I cannot log in to my account",
	}
}

func TestMemoryCreateAssignsSequentialIDs(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	start := time.Now()

	first, err := repo.Create(ctx, sampleInput())
	require.NoError(t, err)
	second, err := repo.Create(ctx, sampleInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.Before(start))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryDuplicateSubmissionsAreDistinct(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, sampleInput())
	require.NoError(t, err)
	second, err := repo.Create(ctx, sampleInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestMemoryGetByID(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleInput())
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Login issue", got.Subject)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleInput())
	require.NoError(t, err)
	created.Subject = "mutated"

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Login issue", stored.Subject)
}

func TestMemoryConcurrentCreates(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	const n = 100

	var mu sync.Mutex
	seen := make(map[int64]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket, err := repo.Create(ctx, sampleInput())
			assert.NoError(t, err)
			mu.Lock()
			seen[ticket.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	// ids must be exactly 1..n: unique, starting at 1, no gaps and none
	// reused.
	require.Len(t, seen, n)
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}
