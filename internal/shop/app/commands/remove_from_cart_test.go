package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshop/jshop/internal/shop/app/commands"
	"github.com/jshop/jshop/internal/shop/domain"
)

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("releases the removed quantity", func(t *testing.T) {
		f := newFixture(t)
		f.seedProcessingCart(t, "cart-1", keyboard, 5)

		handler := commands.NewRemoveFromCartCommandHandler(f.carts, f.stock, f.tx)

		got, err := handler.Handle(ctx, commands.RemoveFromCartCommand{CartID: "cart-1", ProductID: keyboard.ID, Quantity: 2})
		require.NoError(t, err)

		require.Len(t, got.Lines, 1)
		assert.Equal(t, 3, got.Lines[0].Quantity)
		assert.Equal(t, 7, f.stockLevel(t, keyboard.ID))
	})

	t.Run("over-removal releases only the line quantity", func(t *testing.T) {
		f := newFixture(t)
		f.seedProcessingCart(t, "cart-1", keyboard, 3)

		handler := commands.NewRemoveFromCartCommandHandler(f.carts, f.stock, f.tx)

		got, err := handler.Handle(ctx, commands.RemoveFromCartCommand{CartID: "cart-1", ProductID: keyboard.ID, Quantity: 100})
		require.NoError(t, err)

		assert.Empty(t, got.Lines)
		assert.Equal(t, domain.CartStatusEmpty, got.Status)
		assert.Equal(t, 10, f.stockLevel(t, keyboard.ID))
	})

	t.Run("missing line reads as product not found", func(t *testing.T) {
		f := newFixture(t)
		f.seedProcessingCart(t, "cart-1", keyboard, 1)

		handler := commands.NewRemoveFromCartCommandHandler(f.carts, f.stock, f.tx)

		_, err := handler.Handle(ctx, commands.RemoveFromCartCommand{CartID: "cart-1", ProductID: mouse.ID, Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("release failure surfaces and cart stays unsaved", func(t *testing.T) {
		f := newFixture(t)
		f.seedProcessingCart(t, "cart-1", keyboard, 5)
		broken := &failingStock{StockRepository: f.stock}

		handler := commands.NewRemoveFromCartCommandHandler(f.carts, broken, f.tx)

		_, err := handler.Handle(ctx, commands.RemoveFromCartCommand{CartID: "cart-1", ProductID: keyboard.ID, Quantity: 2})
		assert.ErrorIs(t, err, errStockDown)

		stored, err := f.carts.GetByID(ctx, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Lines[0].Quantity)
	})
}

func TestCancelCart(t *testing.T) {
	ctx := context.Background()

	t.Run("releases every line and deletes the cart", func(t *testing.T) {
		f := newFixture(t)
		cart := f.seedProcessingCart(t, "cart-1", keyboard, 4)
		require.NoError(t, cart.AddLine(mouse, 2))
		_, err := f.stock.Reserve(ctx, mouse.ID, 2)
		require.NoError(t, err)
		require.NoError(t, f.carts.Save(ctx, *cart))

		handler := commands.NewCancelCartCommandHandler(f.carts, f.stock, f.tx)

		require.NoError(t, handler.Handle(ctx, commands.CancelCartCommand{CartID: "cart-1"}))

		_, err = f.carts.GetByID(ctx, "cart-1")
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
		assert.Equal(t, 10, f.stockLevel(t, keyboard.ID))
		assert.Equal(t, 5, f.stockLevel(t, mouse.ID))
	})

	t.Run("empty cart is simply deleted", func(t *testing.T) {
		f := newFixture(t)
		empty := domain.NewCart("cart-1", time.Now().UTC())
		require.NoError(t, f.carts.Create(ctx, *empty))

		handler := commands.NewCancelCartCommandHandler(f.carts, f.stock, f.tx)

		require.NoError(t, handler.Handle(ctx, commands.CancelCartCommand{CartID: "cart-1"}))

		_, err := f.carts.GetByID(ctx, "cart-1")
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
	})

	t.Run("finalized cart reads as not found", func(t *testing.T) {
		f := newFixture(t)
		cart := f.seedProcessingCart(t, "cart-1", keyboard, 1)
		require.NoError(t, cart.Finalize())
		require.NoError(t, f.carts.Save(ctx, *cart))

		handler := commands.NewCancelCartCommandHandler(f.carts, f.stock, f.tx)

		err := handler.Handle(ctx, commands.CancelCartCommand{CartID: "cart-1"})
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
		assert.Equal(t, 9, f.stockLevel(t, keyboard.ID))
	})
}
