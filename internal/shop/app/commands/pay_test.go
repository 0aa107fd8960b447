package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshop/jshop/internal/shop/app/commands"
	"github.com/jshop/jshop/internal/shop/domain"
)

// checkoutFor seeds a customer with a finalized cart and an unpaid order.
func checkoutFor(t *testing.T, f *fixture, username, password string) *domain.Order {
	t.Helper()

	f.seedCustomer(t, username, password)
	f.seedProcessingCart(t, "cart-"+username, keyboard, 2)

	checkout := commands.NewCheckoutCommandHandler(f.carts, f.orders, f.customers, f.notifier, f.tx, f.logger)
	order, err := checkout.Handle(context.Background(), commands.CheckoutCommand{
		CartID:   "cart-" + username,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return order
}

func TestPay(t *testing.T) {
	ctx := context.Background()

	newHandler := func(f *fixture) *commands.PayCommandHandler {
		return commands.NewPayCommandHandler(f.orders, f.carts, f.customers, f.payment, f.shipment, f.notifier, f.tx, f.logger)
	}

	t.Run("marks paid, deletes the cart and dispatches", func(t *testing.T) {
		f := newFixture(t)
		order := checkoutFor(t, f, "alice", "s3cret")

		paid, err := newHandler(f).Handle(ctx, commands.PayCommand{OrderID: order.ID, Username: "alice", Password: "s3cret"})
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusPaid, paid.Status)
		assert.NotNil(t, paid.PaidAt)
		assert.Nil(t, paid.CartID)

		_, err = f.carts.GetByID(ctx, "cart-alice")
		assert.ErrorIs(t, err, domain.ErrCartNotFound)

		require.Len(t, f.shipment.dispatched, 1)
		assert.Equal(t, order.ID, f.shipment.dispatched[0].ID)

		// Stock stays reserved for the shipped goods.
		assert.Equal(t, 8, f.stockLevel(t, keyboard.ID))
	})

	t.Run("paying twice reads as not found", func(t *testing.T) {
		f := newFixture(t)
		order := checkoutFor(t, f, "alice", "s3cret")
		handler := newHandler(f)
		cmd := commands.PayCommand{OrderID: order.ID, Username: "alice", Password: "s3cret"}

		_, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)
		_, err = handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		assert.Equal(t, 1, f.payment.calls)
	})

	t.Run("declined authorization keeps the order unpaid", func(t *testing.T) {
		f := newFixture(t)
		f.payment.approved = false
		order := checkoutFor(t, f, "alice", "s3cret")

		_, err := newHandler(f).Handle(ctx, commands.PayCommand{OrderID: order.ID, Username: "alice", Password: "s3cret"})
		assert.ErrorIs(t, err, domain.ErrPaymentFailed)

		stored, err := f.orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusUnpaid, stored.Status)

		_, err = f.carts.GetByID(ctx, "cart-alice")
		require.NoError(t, err)
		assert.Empty(t, f.shipment.dispatched)
	})

	t.Run("cannot pay another customer's order", func(t *testing.T) {
		f := newFixture(t)
		order := checkoutFor(t, f, "alice", "s3cret")
		f.seedCustomer(t, "bob", "hunter2")

		_, err := newHandler(f).Handle(ctx, commands.PayCommand{OrderID: order.ID, Username: "bob", Password: "hunter2"})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestPayAsGuest(t *testing.T) {
	ctx := context.Background()

	validDetails := domain.GuestDetails{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Address: domain.Address{
			Street:  "Main St",
			HouseNo: "12",
			FlatNo:  "3",
			ZipCode: "10001",
			City:    "Springfield",
		},
	}

	newHandler := func(f *fixture) *commands.PayAsGuestCommandHandler {
		return commands.NewPayAsGuestCommandHandler(f.carts, f.orders, f.customers, f.payment, f.shipment, f.notifier, f.tx, f.logger)
	}

	t.Run("pays in one step and removes the guest snapshot", func(t *testing.T) {
		f := newFixture(t)
		f.seedProcessingCart(t, "cart-1", keyboard, 2)

		tracker := &guestTracker{CustomerRepository: f.customers}
		handler := commands.NewPayAsGuestCommandHandler(f.carts, f.orders, tracker, f.payment, f.shipment, f.notifier, f.tx, f.logger)

		order, err := handler.Handle(ctx, commands.PayAsGuestCommand{CartID: "cart-1", Details: validDetails})
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusPaid, order.Status)
		assert.Nil(t, order.CustomerID)
		assert.Nil(t, order.CartID)

		_, err = f.carts.GetByID(ctx, "cart-1")
		assert.ErrorIs(t, err, domain.ErrCartNotFound)

		require.Len(t, tracker.createdGuests, 1)
		_, err = f.customers.GetByID(ctx, tracker.createdGuests[0])
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		require.Len(t, f.shipment.dispatched, 1)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, validDetails.Email, f.notifier.sent[0].Recipient)
	})

	t.Run("declined authorization leaves no guest record", func(t *testing.T) {
		f := newFixture(t)
		f.payment.approved = false
		f.seedProcessingCart(t, "cart-1", keyboard, 2)

		tracker := &guestTracker{CustomerRepository: f.customers}
		handler := commands.NewPayAsGuestCommandHandler(f.carts, f.orders, tracker, f.payment, f.shipment, f.notifier, f.tx, f.logger)

		_, err := handler.Handle(ctx, commands.PayAsGuestCommand{CartID: "cart-1", Details: validDetails})
		assert.ErrorIs(t, err, domain.ErrPaymentFailed)

		assert.Empty(t, tracker.createdGuests)
		_, err = f.carts.GetByID(ctx, "cart-1")
		require.NoError(t, err)
		assert.Empty(t, f.shipment.dispatched)
	})

	t.Run("invalid details fail before anything is written", func(t *testing.T) {
		f := newFixture(t)
		f.seedProcessingCart(t, "cart-1", keyboard, 2)

		details := validDetails
		details.Email = ""

		_, err := newHandler(f).Handle(ctx, commands.PayAsGuestCommand{CartID: "cart-1", Details: details})
		assert.ErrorIs(t, err, domain.ErrInvalidCustomerData)

		_, err = f.carts.GetByID(ctx, "cart-1")
		require.NoError(t, err)
	})

	t.Run("empty cart cannot be paid", func(t *testing.T) {
		f := newFixture(t)

		_, err := newHandler(f).Handle(ctx, commands.PayAsGuestCommand{CartID: "cart-1", Details: validDetails})
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
	})
}
