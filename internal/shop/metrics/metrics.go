package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	checkoutsTotal    metric.Int64Counter
	checkoutDuration  metric.Float64Histogram
	paymentsTotal     metric.Int64Counter
	cartsExpiredTotal metric.Int64Counter
	ordersExpired     metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.checkoutsTotal, err = meter.Int64Counter(
		"checkouts_total",
		metric.WithDescription("Total number of checkout attempts"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkouts_total counter: %w", err)
	}

	m.checkoutDuration, err = meter.Float64Histogram(
		"checkout_duration_seconds",
		metric.WithDescription("Duration of checkout operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_duration histogram: %w", err)
	}

	m.paymentsTotal, err = meter.Int64Counter(
		"payments_total",
		metric.WithDescription("Total number of payment attempts"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payments_total counter: %w", err)
	}

	m.cartsExpiredTotal, err = meter.Int64Counter(
		"carts_expired_total",
		metric.WithDescription("Carts removed by the reconciliation sweeps"),
		metric.WithUnit("{cart}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create carts_expired_total counter: %w", err)
	}

	m.ordersExpired, err = meter.Int64Counter(
		"orders_expired_total",
		metric.WithDescription("Unpaid orders cancelled by the reconciliation sweeps"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_expired_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordCheckout(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.checkoutsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordCheckoutDuration(ctx context.Context, durationSeconds float64) {
	m.checkoutDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordPayment(ctx context.Context, guest, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.paymentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.Bool("guest", guest),
	))
}

func (m *Metrics) RecordCartsExpired(ctx context.Context, count int64, reason string) {
	m.cartsExpiredTotal.Add(ctx, count, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *Metrics) RecordOrdersExpired(ctx context.Context, count int64) {
	m.ordersExpired.Add(ctx, count)
}
