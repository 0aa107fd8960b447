package commands

import (
	"context"
	"log/slog"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/metrics"
	"github.com/jshop/jshop/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservablePayHandler struct {
	handler PayHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePayHandler(handler PayHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePayHandler {
	return &ObservablePayHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePayHandler) Handle(ctx context.Context, cmd PayCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PayCommand.Handle")
	defer span.End()

	order, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.metrics.RecordPayment(ctx, false, false)
		o.logger.ErrorContext(ctx, "payment failed", "order_id", cmd.OrderID, "error", err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.Int64("order.total_cents", order.TotalCents),
	)
	o.metrics.RecordPayment(ctx, false, true)
	o.logger.InfoContext(ctx, "order paid", "order_id", order.ID, "total_cents", order.TotalCents)

	telemetry.SetSpanSuccess(span)
	return order, nil
}

type ObservablePayAsGuestHandler struct {
	handler PayAsGuestHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePayAsGuestHandler(handler PayAsGuestHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePayAsGuestHandler {
	return &ObservablePayAsGuestHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePayAsGuestHandler) Handle(ctx context.Context, cmd PayAsGuestCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PayAsGuestCommand.Handle")
	defer span.End()

	order, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.metrics.RecordPayment(ctx, true, false)
		o.logger.ErrorContext(ctx, "guest payment failed", "cart_id", cmd.CartID, "error", err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.Int64("order.total_cents", order.TotalCents),
	)
	o.metrics.RecordPayment(ctx, true, true)
	o.logger.InfoContext(ctx, "guest order paid", "order_id", order.ID, "total_cents", order.TotalCents)

	telemetry.SetSpanSuccess(span)
	return order, nil
}
