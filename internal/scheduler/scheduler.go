// Package scheduler runs the daily reconciliation sweeps that keep the cart
// and order stores consistent with the stock ledger.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jshop/jshop/internal/shop/app"
	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/metrics"
	"github.com/jshop/jshop/internal/shop/ports"
)

// Aging thresholds, day-granular like the sweeps that apply them.
const (
	cartMaxAge     = 3 * 24 * time.Hour
	reminderAge    = 13 * 24 * time.Hour
	orderExpiryAge = 14 * 24 * time.Hour
)

// Scheduler periodically purges abandoned carts and expires unpaid orders.
type Scheduler struct {
	service   *app.Service
	carts     ports.CartRepository
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	notifier  ports.Notifier
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New constructs a Scheduler. The clock is injectable for tests.
func New(
	service *app.Service,
	carts ports.CartRepository,
	orders ports.OrderRepository,
	customers ports.CustomerRepository,
	notifier ports.Notifier,
	interval time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Scheduler {
	return &Scheduler{
		service:   service,
		carts:     carts,
		orders:    orders,
		customers: customers,
		notifier:  notifier,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
		metrics:   m,
	}
}

// WithClock replaces the scheduler's clock.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Run sweeps on every tick until the context is cancelled. The first sweep
// happens one interval after start.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs all four reconciliation passes once. Per-entity failures are
// logged and never abort the sweep.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.now().UTC()

	s.purgeEmptyCarts(ctx)
	s.cancelStaleCarts(ctx, now)
	s.remindUnpaidOrders(ctx, now)
	s.expireUnpaidOrders(ctx, now)
}

func (s *Scheduler) purgeEmptyCarts(ctx context.Context) {
	deleted, err := s.carts.DeleteByStatus(ctx, domain.CartStatusEmpty)
	if err != nil {
		s.logger.ErrorContext(ctx, "purge empty carts", "error", err)
		return
	}
	if deleted > 0 {
		s.metrics.RecordCartsExpired(ctx, deleted, "empty")
		s.logger.InfoContext(ctx, "purged empty carts", "count", deleted)
	}
}

func (s *Scheduler) cancelStaleCarts(ctx context.Context, now time.Time) {
	cutoff := now.Add(-cartMaxAge)

	carts, err := s.carts.ListProcessingCreatedBefore(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "list stale carts", "error", err)
		return
	}

	var cancelled int64
	for _, cart := range carts {
		if err := s.service.CancelCart(ctx, cart.ID); err != nil {
			s.logger.ErrorContext(ctx, "cancel stale cart", "cart_id", cart.ID, "error", err)
			continue
		}
		cancelled++
	}
	if cancelled > 0 {
		s.metrics.RecordCartsExpired(ctx, cancelled, "stale")
		s.logger.InfoContext(ctx, "cancelled stale carts", "count", cancelled)
	}
}

func (s *Scheduler) remindUnpaidOrders(ctx context.Context, now time.Time) {
	reminderDate := now.Add(-reminderAge)

	orders, err := s.orders.ListUnpaidCreatedOn(ctx, reminderDate)
	if err != nil {
		s.logger.ErrorContext(ctx, "list orders due reminder", "error", err)
		return
	}

	for _, order := range orders {
		if err := s.sendReminder(ctx, order); err != nil {
			s.logger.ErrorContext(ctx, "send payment reminder", "order_id", order.ID, "error", err)
		}
	}
}

func (s *Scheduler) sendReminder(ctx context.Context, order domain.Order) error {
	if order.CustomerID == nil {
		return nil
	}

	customer, err := s.customers.GetByID(ctx, *order.CustomerID)
	if err != nil {
		return fmt.Errorf("load order customer: %w", err)
	}

	body := fmt.Sprintf(
		"Your order is still awaiting payment and will be cancelled after %s.\n\n%s",
		order.PaymentDueAt.Format("2006-01-02"),
		order.RenderLines(),
	)
	return s.notifier.Send(ctx, customer.Email, "Payment reminder", body)
}

func (s *Scheduler) expireUnpaidOrders(ctx context.Context, now time.Time) {
	cutoff := now.Add(-orderExpiryAge)

	orders, err := s.orders.ListUnpaidCreatedBefore(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "list expired orders", "error", err)
		return
	}

	var expired int64
	for _, order := range orders {
		if err := s.service.ExpireOrder(ctx, order.ID); err != nil {
			s.logger.ErrorContext(ctx, "expire order", "order_id", order.ID, "error", err)
			continue
		}
		expired++
	}
	if expired > 0 {
		s.metrics.RecordOrdersExpired(ctx, expired)
		s.logger.InfoContext(ctx, "expired unpaid orders", "count", expired)
	}
}
