package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
)

// CartRepository provides an in-memory cart store useful for local development
// and tests.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewCartRepository constructs a new in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]domain.Cart)}
}

// Create stores a new cart instance.
func (r *CartRepository) Create(_ context.Context, cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID] = cloneCart(cart)
	return nil
}

// GetByID fetches a single cart by identifier.
func (r *CartRepository) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	copy := cloneCart(cart)
	return &copy, nil
}

// Save overwrites the stored cart.
func (r *CartRepository) Save(_ context.Context, cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[cart.ID]; !ok {
		return domain.ErrCartNotFound
	}
	r.carts[cart.ID] = cloneCart(cart)
	return nil
}

// Delete removes the cart.
func (r *CartRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	return nil
}

// DeleteByStatus removes every cart in the given status.
func (r *CartRepository) DeleteByStatus(_ context.Context, status domain.CartStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, cart := range r.carts {
		if cart.Status == status {
			delete(r.carts, id)
			deleted++
		}
	}
	return deleted, nil
}

// ListProcessingCreatedBefore returns PROCESSING carts created on or before
// the cutoff date.
func (r *CartRepository) ListProcessingCreatedBefore(_ context.Context, cutoff time.Time) ([]domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoffDay := truncateToDay(cutoff)
	var result []domain.Cart
	for _, cart := range r.carts {
		if cart.Status != domain.CartStatusProcessing {
			continue
		}
		if !truncateToDay(cart.CreatedAt).After(cutoffDay) {
			result = append(result, cloneCart(cart))
		}
	}
	return result, nil
}

func cloneCart(cart domain.Cart) domain.Cart {
	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	cart.Lines = lines
	return cart
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
