package memory

import (
	"context"
	"sync"

	"github.com/jshop/jshop/internal/shop/domain"
)

// CustomerRepository provides an in-memory customer store useful for local
// development and tests.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]domain.Customer
	nextID    int64
}

// NewCustomerRepository constructs a new in-memory customer repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[int64]domain.Customer), nextID: 1}
}

// Add seeds a registered customer and returns its assigned identifier.
func (r *CustomerRepository) Add(customer domain.Customer) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = r.nextID
	r.nextID++
	r.customers[customer.ID] = customer
	return customer.ID
}

// GetByUsername fetches a registered customer by username.
func (r *CustomerRepository) GetByUsername(_ context.Context, username string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if customer.Username == username && !customer.Guest {
			copy := customer
			return &copy, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetByID fetches a customer by identifier.
func (r *CustomerRepository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := customer
	return &copy, nil
}

// CreateGuest stores a transient guest record and returns its identifier.
func (r *CustomerRepository) CreateGuest(_ context.Context, customer domain.Customer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = r.nextID
	r.nextID++
	r.customers[customer.ID] = customer
	return customer.ID, nil
}

// Delete removes the customer record.
func (r *CustomerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}
