package commands

import (
	"context"
	"time"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

type CreateCartCommandHandler struct {
	carts ports.CartRepository
}

func NewCreateCartCommandHandler(carts ports.CartRepository) *CreateCartCommandHandler {
	return &CreateCartCommandHandler{carts: carts}
}

func (h *CreateCartCommandHandler) Handle(ctx context.Context) (*domain.Cart, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	cart := domain.NewCart(id, time.Now().UTC())
	if err := h.carts.Create(ctx, *cart); err != nil {
		return nil, err
	}

	return cart, nil
}
