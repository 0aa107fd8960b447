package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jshop/jshop/internal/shop/domain"
)

// StockRepository is the Postgres-backed available-quantity store. A CHECK
// constraint on the quantity column backs up the conditional decrement, so
// concurrent reservations can never drive stock negative.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository constructs a StockRepository on the pool.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Reserve atomically decrements the available quantity and returns the new
// value.
func (r *StockRepository) Reserve(ctx context.Context, productID int64, qty int) (int, error) {
	query := `
		UPDATE stock
		SET quantity = quantity - $2, updated_at = now()
		WHERE product_id = $1 AND quantity >= $2
		RETURNING quantity
	`

	var remaining int
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, productID, qty).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return 0, domain.ErrInsufficientStock
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("reserve stock: %w", err)
	}

	// No row updated: the record is missing, empty, or too small.
	available, err := r.Lookup(ctx, productID)
	if err != nil {
		return 0, err
	}
	if available == 0 {
		return 0, domain.ErrProductNotFound
	}
	return 0, domain.ErrInsufficientStock
}

// Release returns quantity to the pool, creating the record if needed.
func (r *StockRepository) Release(ctx context.Context, productID int64, qty int) error {
	query := `
		INSERT INTO stock (product_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = stock.quantity + $2, updated_at = now()
	`

	if _, err := querierFrom(ctx, r.pool).Exec(ctx, query, productID, qty); err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	return nil
}

// Lookup returns the current quantity for a product.
func (r *StockRepository) Lookup(ctx context.Context, productID int64) (int, error) {
	query := `SELECT quantity FROM stock WHERE product_id = $1`

	var qty int
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProductNotFound
		}
		return 0, fmt.Errorf("select stock: %w", err)
	}
	return qty, nil
}
