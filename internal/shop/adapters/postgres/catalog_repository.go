package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jshop/jshop/internal/shop/domain"
)

// Catalog reads product data from the products table.
type Catalog struct {
	pool *pgxpool.Pool
}

// NewCatalog constructs a Catalog on the pool.
func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

// FindProduct returns the catalog entry for the product.
func (c *Catalog) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price_cents, category
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := querierFrom(ctx, c.pool).QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.PriceCents,
		&product.Category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}

	return &product, nil
}
