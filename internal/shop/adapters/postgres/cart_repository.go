package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jshop/jshop/internal/shop/domain"
)

// CartRepository is the Postgres-backed cart store. Inside a transaction
// GetByID locks the cart row, serializing concurrent lifecycle operations on
// the same cart.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository constructs a CartRepository on the pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Create stores a new cart.
func (r *CartRepository) Create(ctx context.Context, cart domain.Cart) error {
	query := `
		INSERT INTO carts (id, status, total_cents, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		cart.ID,
		cart.Status,
		cart.TotalCents,
		cart.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}

	return r.saveLines(ctx, cart)
}

// GetByID fetches a cart with its lines. The row is locked when a transaction
// is in flight.
func (r *CartRepository) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	query := `
		SELECT id, status, total_cents, created_at
		FROM carts
		WHERE id = $1
	`
	if inTx(ctx) {
		query += " FOR UPDATE"
	}

	q := querierFrom(ctx, r.pool)

	var cart domain.Cart
	err := q.QueryRow(ctx, query, id).Scan(
		&cart.ID,
		&cart.Status,
		&cart.TotalCents,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	lines, err := r.loadLines(ctx, q, id)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines

	return &cart, nil
}

// Save overwrites the cart and replaces its lines.
func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) error {
	query := `
		UPDATE carts
		SET status = $2, total_cents = $3
		WHERE id = $1
	`

	q := querierFrom(ctx, r.pool)

	result, err := q.Exec(ctx, query, cart.ID, cart.Status, cart.TotalCents)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCartNotFound
	}

	if _, err := q.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}

	return r.saveLines(ctx, cart)
}

// Delete removes the cart; its lines cascade.
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	if _, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM carts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// DeleteByStatus removes every cart in the given status and reports the count.
func (r *CartRepository) DeleteByStatus(ctx context.Context, status domain.CartStatus) (int64, error) {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM carts WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("delete carts by status: %w", err)
	}
	return result.RowsAffected(), nil
}

// ListProcessingCreatedBefore returns PROCESSING carts created on or before
// the cutoff date. Comparison is day-granular.
func (r *CartRepository) ListProcessingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Cart, error) {
	query := `
		SELECT id, status, total_cents, created_at
		FROM carts
		WHERE status = $1 AND created_at::date <= $2::date
		ORDER BY created_at
	`

	q := querierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, query, domain.CartStatusProcessing, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query carts: %w", err)
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.Status, &cart.TotalCents, &cart.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate carts: %w", err)
	}

	for i := range carts {
		lines, err := r.loadLines(ctx, q, carts[i].ID)
		if err != nil {
			return nil, err
		}
		carts[i].Lines = lines
	}

	return carts, nil
}

func (r *CartRepository) saveLines(ctx context.Context, cart domain.Cart) error {
	query := `
		INSERT INTO cart_lines (cart_id, position, product_id, product_name, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	q := querierFrom(ctx, r.pool)
	for i, line := range cart.Lines {
		_, err := q.Exec(ctx, query,
			cart.ID,
			i,
			line.ProductID,
			line.ProductName,
			line.Quantity,
			line.UnitPriceCents,
		)
		if err != nil {
			return fmt.Errorf("insert cart line: %w", err)
		}
	}
	return nil
}

func (r *CartRepository) loadLines(ctx context.Context, q querier, cartID string) ([]domain.CartLine, error) {
	query := `
		SELECT product_id, product_name, quantity, unit_price_cents
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}
