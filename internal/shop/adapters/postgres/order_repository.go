package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jshop/jshop/internal/shop/domain"
)

// OrderRepository is the Postgres-backed order store. Line snapshots are kept
// as a JSONB column: they are written once at checkout and never queried by
// field.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs an OrderRepository on the pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, customer_id, cart_id, status, lines, total_cents, created_at, paid_at, payment_due_at`

// Create stores a new order.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, cart_id, status, lines, total_cents, created_at, paid_at, payment_due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}

	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.CartID,
		order.Status,
		lines,
		order.TotalCents,
		order.CreatedAt,
		order.PaidAt,
		order.PaymentDueAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID fetches a single order by identifier. Inside a transaction the row
// is locked so concurrent settlement and cancellation serialize on it.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if inTx(ctx) {
		query += " FOR UPDATE"
	}
	return r.getOne(ctx, query, id)
}

// GetByIDForCustomer fetches the order only when it belongs to the username.
// Inside a transaction the order row is locked, same as GetByID.
func (r *OrderRepository) GetByIDForCustomer(ctx context.Context, id, username string) (*domain.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.cart_id, o.status, o.lines, o.total_cents, o.created_at, o.paid_at, o.payment_due_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1 AND c.username = $2
	`
	if inTx(ctx) {
		query += " FOR UPDATE OF o"
	}
	return r.getOne(ctx, query, id, username)
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, username string) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.cart_id, o.status, o.lines, o.total_cents, o.created_at, o.paid_at, o.payment_due_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE c.username = $1
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query, username)
}

// Save overwrites the stored order.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) error {
	query := `
		UPDATE orders
		SET customer_id = $2, cart_id = $3, status = $4, paid_at = $5
		WHERE id = $1
	`

	result, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.CartID,
		order.Status,
		order.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// Delete removes the order.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if _, err := querierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// ListUnpaidCreatedOn returns unpaid, never-paid orders created on the given
// calendar date.
func (r *OrderRepository) ListUnpaidCreatedOn(ctx context.Context, date time.Time) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1 AND paid_at IS NULL AND created_at::date = $2::date
		ORDER BY created_at
	`
	return r.list(ctx, query, domain.OrderStatusUnpaid, date)
}

// ListUnpaidCreatedBefore returns unpaid, never-paid orders created strictly
// before the given calendar date.
func (r *OrderRepository) ListUnpaidCreatedBefore(ctx context.Context, date time.Time) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1 AND paid_at IS NULL AND created_at::date < $2::date
		ORDER BY created_at
	`
	return r.list(ctx, query, domain.OrderStatusUnpaid, date)
}

func (r *OrderRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	var (
		order domain.Order
		lines []byte
	)
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&order.ID,
		&order.CustomerID,
		&order.CartID,
		&order.Status,
		&lines,
		&order.TotalCents,
		&order.CreatedAt,
		&order.PaidAt,
		&order.PaymentDueAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := json.Unmarshal(lines, &order.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal order lines: %w", err)
	}

	return &order, nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			order domain.Order
			lines []byte
		)
		if err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.CartID,
			&order.Status,
			&lines,
			&order.TotalCents,
			&order.CreatedAt,
			&order.PaidAt,
			&order.PaymentDueAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(lines, &order.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal order lines: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}
