package commands

import (
	"context"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type RemoveFromCartCommand struct {
	CartID    string
	ProductID int64
	Quantity  int
}

func (c RemoveFromCartCommand) Validate() error {
	if c.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

type RemoveFromCartCommandHandler struct {
	carts ports.CartRepository
	stock ports.StockRepository
	tx    ports.Transactor
}

func NewRemoveFromCartCommandHandler(
	carts ports.CartRepository,
	stock ports.StockRepository,
	tx ports.Transactor,
) *RemoveFromCartCommandHandler {
	return &RemoveFromCartCommandHandler{
		carts: carts,
		stock: stock,
		tx:    tx,
	}
}

func (h *RemoveFromCartCommandHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) (*domain.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var cart *domain.Cart
	err := h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		cart, err = h.carts.GetByID(ctx, cmd.CartID)
		if err != nil {
			return err
		}

		// The line decides how much actually comes back: over-removal releases
		// the whole line quantity, not the requested amount.
		released, err := cart.RemoveLine(cmd.ProductID, cmd.Quantity)
		if err != nil {
			return err
		}

		if err := h.stock.Release(ctx, cmd.ProductID, released); err != nil {
			return err
		}

		return h.carts.Save(ctx, *cart)
	})
	if err != nil {
		return nil, err
	}

	return cart, nil
}
