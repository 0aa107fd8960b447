package memory

import (
	"context"
	"sync"

	"github.com/jshop/jshop/internal/shop/domain"
)

// StockRepository keeps the available quantities in a map, useful for local
// development and tests.
type StockRepository struct {
	mu         sync.RWMutex
	quantities map[int64]int
}

// NewStockRepository constructs an empty in-memory stock ledger.
func NewStockRepository() *StockRepository {
	return &StockRepository{quantities: make(map[int64]int)}
}

// Set seeds the quantity for a product.
func (r *StockRepository) Set(productID int64, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quantities[productID] = qty
}

// Reserve decrements the available quantity and returns the new value.
func (r *StockRepository) Reserve(_ context.Context, productID int64, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	available, ok := r.quantities[productID]
	if !ok || available == 0 {
		return 0, domain.ErrProductNotFound
	}
	if qty > available {
		return 0, domain.ErrInsufficientStock
	}

	r.quantities[productID] = available - qty
	return available - qty, nil
}

// Release increments the available quantity, creating the record if needed.
func (r *StockRepository) Release(_ context.Context, productID int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quantities[productID] += qty
	return nil
}

// Lookup returns the current quantity for a product.
func (r *StockRepository) Lookup(_ context.Context, productID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	qty, ok := r.quantities[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	return qty, nil
}
