// Package payment authorizes order payments.
package payment

import (
	"context"
	"log/slog"

	"github.com/jshop/jshop/internal/shop/domain"
)

// StubAuthorizer approves every payment. It stands in for a gateway
// integration; the lifecycle treats a declined authorization as a payment
// failure either way.
type StubAuthorizer struct {
	logger *slog.Logger
}

// NewStubAuthorizer constructs a StubAuthorizer.
func NewStubAuthorizer(logger *slog.Logger) *StubAuthorizer {
	return &StubAuthorizer{logger: logger}
}

// Authorize approves the payment.
func (a *StubAuthorizer) Authorize(ctx context.Context, order domain.Order) (bool, error) {
	a.logger.InfoContext(ctx, "payment authorized",
		"order_id", order.ID,
		"amount_cents", order.TotalCents,
	)
	return true, nil
}
