package queries

import (
	"context"
	"strings"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

// ListCustomerOrdersQuery asks for every order of the authenticated customer.
type ListCustomerOrdersQuery struct {
	Username string
	Password string
}

// ListCustomerOrdersQueryHandler authenticates and lists the caller's orders.
type ListCustomerOrdersQueryHandler struct {
	orders    ports.OrderRepository
	customers ports.CustomerRepository
}

// NewListCustomerOrdersQueryHandler constructs a ListCustomerOrdersQueryHandler.
func NewListCustomerOrdersQueryHandler(orders ports.OrderRepository, customers ports.CustomerRepository) *ListCustomerOrdersQueryHandler {
	return &ListCustomerOrdersQueryHandler{orders: orders, customers: customers}
}

// Handle verifies credentials and returns the customer's orders, newest first.
func (h *ListCustomerOrdersQueryHandler) Handle(ctx context.Context, query ListCustomerOrdersQuery) ([]domain.Order, error) {
	if strings.TrimSpace(query.Username) == "" || query.Password == "" {
		return nil, domain.ErrInvalidCustomerData
	}

	customer, err := h.customers.GetByUsername(ctx, query.Username)
	if err != nil {
		return nil, err
	}
	if err := customer.VerifyPassword(query.Password); err != nil {
		return nil, err
	}

	return h.orders.ListByCustomer(ctx, query.Username)
}
