package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type CheckoutCommand struct {
	CartID   string
	Username string
	Password string
}

// CheckoutHandler is the contract the observable decorator wraps.
type CheckoutHandler interface {
	Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error)
}

type CheckoutCommandHandler struct {
	carts     ports.CartRepository
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	notifier  ports.Notifier
	tx        ports.Transactor
	logger    *slog.Logger
}

func NewCheckoutCommandHandler(
	carts ports.CartRepository,
	orders ports.OrderRepository,
	customers ports.CustomerRepository,
	notifier ports.Notifier,
	tx ports.Transactor,
	logger *slog.Logger,
) *CheckoutCommandHandler {
	return &CheckoutCommandHandler{
		carts:     carts,
		orders:    orders,
		customers: customers,
		notifier:  notifier,
		tx:        tx,
		logger:    logger,
	}
}

func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	customer, err := verifyCustomer(ctx, h.customers, cmd.Username, cmd.Password)
	if err != nil {
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

		order = domain.NewOrder(orderID, &customer.ID, cart, now)

		if err := cart.Finalize(); err != nil {
			return err
		}
		if err := h.carts.Save(ctx, *cart); err != nil {
			return err
		}

		return h.orders.Create(ctx, *order)
	})
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Order %s placed", order.ID)
	body := fmt.Sprintf("Your order has been placed. Payment is due by %s.\n%s",
		order.PaymentDueAt.Format("2006-01-02"), order.RenderLines())
	if err := h.notifier.Send(ctx, customer.Email, subject, body); err != nil {
		h.logger.WarnContext(ctx, "order placed notification failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}
