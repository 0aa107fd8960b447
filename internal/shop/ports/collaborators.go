package ports

import (
	"context"

	"github.com/jshop/jshop/internal/shop/domain"
)

// Catalog supplies product data at cart-line-add time.
type Catalog interface {
	// FindProduct returns the catalog entry or domain.ErrProductNotFound.
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// Notifier delivers customer-facing messages. It is fire-and-forget: callers
// log failures and never propagate them into lifecycle operations.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// PaymentAuthorizer answers whether an order's payment is approved.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, order domain.Order) (bool, error)
}

// Dispatcher hands a paid order to shipment, once per successful payment.
type Dispatcher interface {
	Dispatch(ctx context.Context, order domain.Order) error
}
