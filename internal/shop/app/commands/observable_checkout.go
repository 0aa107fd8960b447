package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/metrics"
	"github.com/jshop/jshop/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCheckoutHandler struct {
	handler CheckoutHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCheckoutHandler(handler CheckoutHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCheckoutHandler {
	return &ObservableCheckoutHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CheckoutCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordCheckoutDuration(ctx, duration)
		o.metrics.RecordCheckout(ctx, success)
	}()

	o.logger.InfoContext(ctx, "checking out cart",
		"cart_id", cmd.CartID,
		"username", cmd.Username,
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "checkout failed",
			"error", err,
			"cart_id", cmd.CartID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("cart.id", cmd.CartID),
		attribute.Int64("order.total_cents", order.TotalCents),
		attribute.String("order.status", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"cart_id", cmd.CartID,
		"total_cents", order.TotalCents,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
