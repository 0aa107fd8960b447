package commands

import (
	"context"
	"strings"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

// verifyCustomer authenticates a registered customer by username and password.
// Blank credentials are invalid data, an unknown username is ErrUserNotFound
// and a hash mismatch is ErrAccessDenied.
func verifyCustomer(ctx context.Context, customers ports.CustomerRepository, username, password string) (*domain.Customer, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.ErrInvalidCustomerData
	}

	customer, err := customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := customer.VerifyPassword(password); err != nil {
		return nil, err
	}

	return customer, nil
}
