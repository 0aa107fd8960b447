package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type PayCommand struct {
	OrderID  string
	Username string
	Password string
}

// PayHandler is the contract the observable decorator wraps.
type PayHandler interface {
	Handle(ctx context.Context, cmd PayCommand) (*domain.Order, error)
}

type PayCommandHandler struct {
	orders    ports.OrderRepository
	carts     ports.CartRepository
	customers ports.CustomerRepository
	payment   ports.PaymentAuthorizer
	shipment  ports.Dispatcher
	notifier  ports.Notifier
	tx        ports.Transactor
	logger    *slog.Logger
}

func NewPayCommandHandler(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	customers ports.CustomerRepository,
	payment ports.PaymentAuthorizer,
	shipment ports.Dispatcher,
	notifier ports.Notifier,
	tx ports.Transactor,
	logger *slog.Logger,
) *PayCommandHandler {
	return &PayCommandHandler{
		orders:    orders,
		carts:     carts,
		customers: customers,
		payment:   payment,
		shipment:  shipment,
		notifier:  notifier,
		tx:        tx,
		logger:    logger,
	}
}

func (h *PayCommandHandler) Handle(ctx context.Context, cmd PayCommand) (*domain.Order, error) {
	customer, err := verifyCustomer(ctx, h.customers, cmd.Username, cmd.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var order *domain.Order
	err = h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = h.orders.GetByIDForCustomer(ctx, cmd.OrderID, cmd.Username)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusPaid {
			return domain.ErrOrderNotFound
		}

		approved, err := h.payment.Authorize(ctx, *order)
		if err != nil {
			return fmt.Errorf("authorize payment: %w", err)
		}
		if !approved {
			return domain.ErrPaymentFailed
		}

		cartID := order.CartID
		if err := order.MarkPaid(now); err != nil {
			return err
		}
		if err := h.orders.Save(ctx, *order); err != nil {
			return err
		}

		if cartID != nil {
			if err := h.carts.Delete(ctx, *cartID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := h.shipment.Dispatch(ctx, *order); err != nil {
		h.logger.ErrorContext(ctx, "shipment dispatch failed", "order_id", order.ID, "error", err)
	}

	subject := fmt.Sprintf("Order %s paid", order.ID)
	body := fmt.Sprintf("Payment received, your order is on its way.\n%s", order.RenderLines())
	if err := h.notifier.Send(ctx, customer.Email, subject, body); err != nil {
		h.logger.WarnContext(ctx, "payment confirmation failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}
