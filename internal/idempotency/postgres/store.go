package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jshop/jshop/internal/shop/ports"
)

// Store persists checkout responses keyed by the client's idempotency key. A
// reserved key holds status_code 0 until its checkout finishes; the primary
// key makes the reservation race-free across instances.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store on the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Reserve claims the key with a placeholder row. Only the insert that lands
// first wins.
func (s *Store) Reserve(ctx context.Context, key string) (bool, error) {
	query := `
		INSERT INTO idempotency_keys (key, status_code, body, order_id, created_at)
		VALUES ($1, 0, ''::bytea, '', now())
		ON CONFLICT (key) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Get returns the completed response for a given key. Absent and still
// reserved keys both read as nil.
func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	query := `
		SELECT status_code, body, order_id
		FROM idempotency_keys
		WHERE key = $1 AND status_code <> 0
	`

	var resp ports.StoredResponse
	err := s.pool.QueryRow(ctx, query, key).Scan(
		&resp.StatusCode,
		&resp.Body,
		&resp.OrderID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select idempotency key: %w", err)
	}

	return &resp, nil
}

// Save completes a reserved key with the response. The first write wins.
func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	query := `
		UPDATE idempotency_keys
		SET status_code = $2, body = $3, order_id = $4
		WHERE key = $1 AND status_code = 0
	`

	_, err := s.pool.Exec(ctx, query, key, response.StatusCode, response.Body, response.OrderID)
	if err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}

	return nil
}

// Release drops a reserved key so a retry can claim it. Completed keys stay.
func (s *Store) Release(ctx context.Context, key string) error {
	query := `DELETE FROM idempotency_keys WHERE key = $1 AND status_code = 0`

	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}

	return nil
}
