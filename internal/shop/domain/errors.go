package domain

import "errors"

// Domain errors surfaced by lifecycle operations. Adapters translate storage
// failures into these; the HTTP layer maps them onto status codes.
var (
	// ErrCartNotFound covers absent carts and carts whose status makes them
	// invisible to the caller: FINALIZED carts reject further mutation and
	// EMPTY carts reject removal, both reported as "not found".
	ErrCartNotFound = errors.New("cart not found")

	// ErrProductNotFound is returned when a product has no catalog entry, no
	// stock record, or no matching line in the targeted cart.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when a reservation asks for more units
	// than the stock ledger holds. The quantity is never clamped.
	ErrInsufficientStock = errors.New("not enough items in stock")

	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrOrderNotFound covers absent orders, orders owned by another customer,
	// and PAID orders targeted by pay or cancel.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPaymentFailed is returned when the payment authorizer declines.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrInvalidCustomerData is returned when required customer or guest
	// fields are blank or malformed.
	ErrInvalidCustomerData = errors.New("invalid customer data")

	// ErrAccessDenied is returned on a credential mismatch.
	ErrAccessDenied = errors.New("access denied")

	// ErrUserNotFound is returned when no customer matches the username.
	ErrUserNotFound = errors.New("user not found")
)
