package commands

import (
	"context"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type AddToCartCommand struct {
	CartID    string
	ProductID int64
	Quantity  int
}

func (c AddToCartCommand) Validate() error {
	if c.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

type AddToCartCommandHandler struct {
	carts   ports.CartRepository
	stock   ports.StockRepository
	catalog ports.Catalog
	tx      ports.Transactor
}

func NewAddToCartCommandHandler(
	carts ports.CartRepository,
	stock ports.StockRepository,
	catalog ports.Catalog,
	tx ports.Transactor,
) *AddToCartCommandHandler {
	return &AddToCartCommandHandler{
		carts:   carts,
		stock:   stock,
		catalog: catalog,
		tx:      tx,
	}
}

func (h *AddToCartCommandHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*domain.Cart, error) {
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
		if cart.Status == domain.CartStatusFinalized {
			return domain.ErrCartNotFound
		}

		product, err := h.catalog.FindProduct(ctx, cmd.ProductID)
		if err != nil {
			return err
		}

		if _, err := h.stock.Reserve(ctx, cmd.ProductID, cmd.Quantity); err != nil {
			return err
		}

		if err := cart.AddLine(*product, cmd.Quantity); err != nil {
			// Hand the reservation back before surfacing the failure, so the
			// memory adapter stays consistent too; under postgres the rollback
			// discards both writes either way.
			if relErr := h.stock.Release(ctx, cmd.ProductID, cmd.Quantity); relErr != nil {
				return relErr
			}
			return err
		}

		return h.carts.Save(ctx, *cart)
	})
	if err != nil {
		return nil, err
	}

	return cart, nil
}
