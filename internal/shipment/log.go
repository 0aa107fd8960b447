// Package shipment hands paid orders over to fulfillment.
package shipment

import (
	"context"
	"log/slog"

	"github.com/jshop/jshop/internal/shop/domain"
)

// LogDispatcher records the shipment manifest in the application log. A
// carrier integration can replace it behind the same port.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher constructs a LogDispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the manifest for the paid order.
func (d *LogDispatcher) Dispatch(ctx context.Context, order domain.Order) error {
	d.logger.InfoContext(ctx, "order dispatched to shipment",
		"order_id", order.ID,
		"manifest", order.RenderLines(),
	)
	return nil
}
