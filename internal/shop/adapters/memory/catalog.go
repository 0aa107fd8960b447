package memory

import (
	"context"
	"sync"

	"github.com/jshop/jshop/internal/shop/domain"
)

// Catalog provides an in-memory product catalog useful for local development
// and tests.
type Catalog struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

// NewCatalog constructs an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{products: make(map[int64]domain.Product)}
}

// Add seeds a product.
func (c *Catalog) Add(product domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
}

// FindProduct returns the catalog entry for the product.
func (c *Catalog) FindProduct(_ context.Context, id int64) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copy := product
	return &copy, nil
}
