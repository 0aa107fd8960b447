package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/ports"
)

// GetCartQuery represents a request to show a cart's contents.
type GetCartQuery struct {
	CartID string
}

// Validate ensures the query has valid parameters.
func (q GetCartQuery) Validate() error {
	if strings.TrimSpace(q.CartID) == "" {
		return errors.New("cart_id is required")
	}
	return nil
}

// GetCartQueryHandler executes GetCartQuery and returns the cart if visible.
type GetCartQueryHandler struct {
	carts ports.CartRepository
}

// NewGetCartQueryHandler constructs a GetCartQueryHandler.
func NewGetCartQueryHandler(carts ports.CartRepository) *GetCartQueryHandler {
	return &GetCartQueryHandler{carts: carts}
}

// Handle loads the cart. Finalized carts are hidden: they read as not found
// just like for mutation.
func (h *GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (*domain.Cart, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cart, err := h.carts.GetByID(ctx, query.CartID)
	if err != nil {
		return nil, err
	}
	if cart.Status == domain.CartStatusFinalized {
		return nil, domain.ErrCartNotFound
	}

	return cart, nil
}
