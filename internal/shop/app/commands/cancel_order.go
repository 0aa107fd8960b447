package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

// CancelOrderCommand cancels an UNPAID order. Username and Password are set by
// the interactive endpoint and left empty by the reconciliation sweep, which
// cancels on the system's behalf.
type CancelOrderCommand struct {
	OrderID  string
	Username string
	Password string
}

type CancelOrderCommandHandler struct {
	orders    ports.OrderRepository
	carts     ports.CartRepository
	stock     ports.StockRepository
	customers ports.CustomerRepository
	notifier  ports.Notifier
	tx        ports.Transactor
	logger    *slog.Logger
}

func NewCancelOrderCommandHandler(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	stock ports.StockRepository,
	customers ports.CustomerRepository,
	notifier ports.Notifier,
	tx ports.Transactor,
	logger *slog.Logger,
) *CancelOrderCommandHandler {
	return &CancelOrderCommandHandler{
		orders:    orders,
		carts:     carts,
		stock:     stock,
		customers: customers,
		notifier:  notifier,
		tx:        tx,
		logger:    logger,
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if cmd.Username != "" {
		if _, err := verifyCustomer(ctx, h.customers, cmd.Username, cmd.Password); err != nil {
			return err
		}
		// Scope the order to its owner before touching anything.
		if _, err := h.orders.GetByIDForCustomer(ctx, cmd.OrderID, cmd.Username); err != nil {
			return err
		}
	}

	var order *domain.Order
	err := h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = h.orders.GetByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusPaid {
			return domain.ErrOrderNotFound
		}

		if order.CartID != nil {
			cart, err := h.carts.GetByID(ctx, *order.CartID)
			if err != nil {
				return err
			}
			if err := releaseCartStock(ctx, h.stock, cart.Lines); err != nil {
				return err
			}
			if err := h.carts.Delete(ctx, cart.ID); err != nil {
				return err
			}
		}

		return h.orders.Delete(ctx, order.ID)
	})
	if err != nil {
		return err
	}

	h.notifyCancelled(ctx, order)
	return nil
}

func (h *CancelOrderCommandHandler) notifyCancelled(ctx context.Context, order *domain.Order) {
	if order.CustomerID == nil {
		return
	}

	customer, err := h.customers.GetByID(ctx, *order.CustomerID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancellation notice skipped", "order_id", order.ID, "error", err)
		return
	}

	subject := fmt.Sprintf("Order %s cancelled", order.ID)
	body := fmt.Sprintf("Your unpaid order has been cancelled and its stock released.\n%s", order.RenderLines())
	if err := h.notifier.Send(ctx, customer.Email, subject, body); err != nil {
		h.logger.WarnContext(ctx, "cancellation notice failed", "order_id", order.ID, "error", err)
	}
}
