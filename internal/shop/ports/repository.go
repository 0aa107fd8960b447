package ports

import (
	"context"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
)

// StockRepository is the authoritative available-quantity store per product.
// Reserve and Release must be atomic with respect to concurrent callers.
type StockRepository interface {
	// Reserve decrements the available quantity and returns the new value.
	// It fails with domain.ErrProductNotFound when no stock record exists or
	// the quantity is zero, and with domain.ErrInsufficientStock when qty
	// exceeds the available amount.
	Reserve(ctx context.Context, productID int64, qty int) (int, error)

	// Release increments the available quantity. It never fails for a missing
	// record; calling it at most once per reservation is the caller's job.
	Release(ctx context.Context, productID int64, qty int) error

	// Lookup returns the current quantity, or domain.ErrProductNotFound when
	// no record exists.
	Lookup(ctx context.Context, productID int64) (int, error)
}

// CartRepository persists carts with their lines. GetByID locks the cart row
// when called inside a transaction so concurrent lifecycle operations on the
// same cart serialize.
type CartRepository interface {
	Create(ctx context.Context, cart domain.Cart) error
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, id string) error

	// DeleteByStatus removes every cart in the given status and reports how
	// many were deleted.
	DeleteByStatus(ctx context.Context, status domain.CartStatus) (int64, error)

	// ListProcessingCreatedBefore returns PROCESSING carts whose creation date
	// (day granularity) is on or before the cutoff date.
	ListProcessingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Cart, error)
}

// OrderRepository persists orders with their frozen line snapshots. GetByID
// and GetByIDForCustomer lock the order row when called inside a transaction
// so concurrent settlement, cancellation and expiry on the same order
// serialize.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByIDForCustomer scopes the lookup to orders owned by the username and
	// reports domain.ErrOrderNotFound otherwise.
	GetByIDForCustomer(ctx context.Context, id, username string) (*domain.Order, error)

	ListByCustomer(ctx context.Context, username string) ([]domain.Order, error)
	Save(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id string) error

	// ListUnpaidCreatedOn returns UNPAID, never-paid orders created on the
	// given calendar date (UTC).
	ListUnpaidCreatedOn(ctx context.Context, date time.Time) ([]domain.Order, error)

	// ListUnpaidCreatedBefore returns UNPAID, never-paid orders created
	// strictly before the given calendar date (UTC).
	ListUnpaidCreatedBefore(ctx context.Context, date time.Time) ([]domain.Order, error)
}

// CustomerRepository reads registered customers and manages transient guest
// snapshots. Registration lives outside this core.
type CustomerRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	CreateGuest(ctx context.Context, customer domain.Customer) (int64, error)
	Delete(ctx context.Context, id int64) error
}
