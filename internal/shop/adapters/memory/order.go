package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
)

// OrderRepository provides an in-memory order store useful for local
// development and tests. It resolves usernames through the customer
// repository the same way the SQL adapter joins the customers table.
type OrderRepository struct {
	mu        sync.RWMutex
	orders    map[string]domain.Order
	customers *CustomerRepository
}

// NewOrderRepository constructs a new in-memory order repository.
func NewOrderRepository(customers *CustomerRepository) *OrderRepository {
	return &OrderRepository{
		orders:    make(map[string]domain.Order),
		customers: customers,
	}
}

// Create stores a new order.
func (r *OrderRepository) Create(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// GetByID fetches a single order by identifier.
func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copy := cloneOrder(order)
	return &copy, nil
}

// GetByIDForCustomer fetches the order only when it belongs to the username.
func (r *OrderRepository) GetByIDForCustomer(ctx context.Context, id, username string) (*domain.Order, error) {
	customer, err := r.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok || order.CustomerID == nil || *order.CustomerID != customer.ID {
		return nil, domain.ErrOrderNotFound
	}
	copy := cloneOrder(order)
	return &copy, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, username string) ([]domain.Order, error) {
	customer, err := r.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Order
	for _, order := range r.orders {
		if order.CustomerID != nil && *order.CustomerID == customer.ID {
			result = append(result, cloneOrder(order))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Save overwrites the stored order.
func (r *OrderRepository) Save(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// Delete removes the order.
func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

// ListUnpaidCreatedOn returns unpaid, never-paid orders created on the given
// calendar date.
func (r *OrderRepository) ListUnpaidCreatedOn(_ context.Context, date time.Time) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := truncateToDay(date)
	var result []domain.Order
	for _, order := range r.orders {
		if order.Status != domain.OrderStatusUnpaid || order.PaidAt != nil {
			continue
		}
		if truncateToDay(order.CreatedAt).Equal(day) {
			result = append(result, cloneOrder(order))
		}
	}
	return result, nil
}

// ListUnpaidCreatedBefore returns unpaid, never-paid orders created strictly
// before the given calendar date.
func (r *OrderRepository) ListUnpaidCreatedBefore(_ context.Context, date time.Time) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := truncateToDay(date)
	var result []domain.Order
	for _, order := range r.orders {
		if order.Status != domain.OrderStatusUnpaid || order.PaidAt != nil {
			continue
		}
		if truncateToDay(order.CreatedAt).Before(day) {
			result = append(result, cloneOrder(order))
		}
	}
	return result, nil
}

func cloneOrder(order domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	if order.CustomerID != nil {
		id := *order.CustomerID
		order.CustomerID = &id
	}
	if order.CartID != nil {
		id := *order.CartID
		order.CartID = &id
	}
	if order.PaidAt != nil {
		at := *order.PaidAt
		order.PaidAt = &at
	}
	return order
}
