package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type PayAsGuestCommand struct {
	CartID  string
	Details domain.GuestDetails
}

// PayAsGuestHandler is the contract the observable decorator wraps.
type PayAsGuestHandler interface {
	Handle(ctx context.Context, cmd PayAsGuestCommand) (*domain.Order, error)
}

// PayAsGuestCommandHandler runs checkout and payment as one synchronous step:
// a guest order never waits in the UNPAID state. The transient guest record
// exists only inside the transaction; the surviving order carries no customer
// reference.
type PayAsGuestCommandHandler struct {
	carts     ports.CartRepository
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	payment   ports.PaymentAuthorizer
	shipment  ports.Dispatcher
	notifier  ports.Notifier
	tx        ports.Transactor
	logger    *slog.Logger
}

func NewPayAsGuestCommandHandler(
	carts ports.CartRepository,
	orders ports.OrderRepository,
	customers ports.CustomerRepository,
	payment ports.PaymentAuthorizer,
	shipment ports.Dispatcher,
	notifier ports.Notifier,
	tx ports.Transactor,
	logger *slog.Logger,
) *PayAsGuestCommandHandler {
	return &PayAsGuestCommandHandler{
		carts:     carts,
		orders:    orders,
		customers: customers,
		payment:   payment,
		shipment:  shipment,
		notifier:  notifier,
		tx:        tx,
		logger:    logger,
	}
}

func (h *PayAsGuestCommandHandler) Handle(ctx context.Context, cmd PayAsGuestCommand) (*domain.Order, error) {
	if err := cmd.Details.Validate(); err != nil {
		return nil, err
	}

	orderID, err := generateID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var order *domain.Order
	err = h.tx.InTx(ctx, func(ctx context.Context) error {
		cart, err := h.carts.GetByID(ctx, cmd.CartID)
		if err != nil {
			return err
		}
		if cart.Status != domain.CartStatusProcessing {
			return domain.ErrCartNotFound
		}

		order = domain.NewOrder(orderID, nil, cart, now)

		approved, err := h.payment.Authorize(ctx, *order)
		if err != nil {
			return fmt.Errorf("authorize payment: %w", err)
		}
		if !approved {
			return domain.ErrPaymentFailed
		}

		// The guest snapshot is created only for an approved payment, so a
		// declined one leaves no customer row behind on any adapter.
		guestID, err := h.customers.CreateGuest(ctx, cmd.Details.Snapshot())
		if err != nil {
			return err
		}

		if err := order.MarkPaid(now); err != nil {
			return err
		}
		// Only the historical order survives; the guest snapshot goes with
		// the cart.
		order.CustomerID = nil

		if err := h.orders.Create(ctx, *order); err != nil {
			return err
		}
		if err := h.carts.Delete(ctx, cart.ID); err != nil {
			return err
		}
		return h.customers.Delete(ctx, guestID)
	})
	if err != nil {
		return nil, err
	}

	if err := h.shipment.Dispatch(ctx, *order); err != nil {
		h.logger.ErrorContext(ctx, "shipment dispatch failed", "order_id", order.ID, "error", err)
	}

	subject := fmt.Sprintf("Order %s paid", order.ID)
	body := fmt.Sprintf("Payment received, your order is on its way.\n%s", order.RenderLines())
	if err := h.notifier.Send(ctx, cmd.Details.Email, subject, body); err != nil {
		h.logger.WarnContext(ctx, "payment confirmation failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}
