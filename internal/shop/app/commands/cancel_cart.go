package commands

import (
	"context"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type CancelCartCommand struct {
	CartID string
}

// CancelCartCommandHandler releases every reservation a cart holds and deletes
// it. The interactive cancel endpoint and the stale-cart sweep both run
// through this handler, so stock is never credited twice for the same cart.
type CancelCartCommandHandler struct {
	carts ports.CartRepository
	stock ports.StockRepository
	tx    ports.Transactor
}

func NewCancelCartCommandHandler(
	carts ports.CartRepository,
	stock ports.StockRepository,
	tx ports.Transactor,
) *CancelCartCommandHandler {
	return &CancelCartCommandHandler{
		carts: carts,
		stock: stock,
		tx:    tx,
	}
}

func (h *CancelCartCommandHandler) Handle(ctx context.Context, cmd CancelCartCommand) error {
	return h.tx.InTx(ctx, func(ctx context.Context) error {
		cart, err := h.carts.GetByID(ctx, cmd.CartID)
		if err != nil {
			return err
		}
		// A finalized cart belongs to an order; cancelling goes through the
		// order instead.
		if cart.Status == domain.CartStatusFinalized {
			return domain.ErrCartNotFound
		}

		if err := releaseCartStock(ctx, h.stock, cart.Lines); err != nil {
			return err
		}

		return h.carts.Delete(ctx, cart.ID)
	})
}

// releaseCartStock returns every line's reservation to the stock ledger.
func releaseCartStock(ctx context.Context, stock ports.StockRepository, lines []domain.CartLine) error {
	for _, line := range lines {
		if err := stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
