package app

import (
	"context"
	"log/slog"

	"github.com/jshop/jshop/internal/shop/app/commands"
	"github.com/jshop/jshop/internal/shop/app/queries"
	"github.com/jshop/jshop/internal/shop/domain"
	"github.com/jshop/jshop/internal/shop/metrics"
	"github.com/jshop/jshop/internal/shop/ports"
)

// Repositories groups the persistence ports the lifecycle engine needs.
type Repositories struct {
	Carts     ports.CartRepository
	Orders    ports.OrderRepository
	Stock     ports.StockRepository
	Customers ports.CustomerRepository
}

// Collaborators groups the external services the lifecycle engine consumes.
type Collaborators struct {
	Catalog  ports.Catalog
	Notifier ports.Notifier
	Payment  ports.PaymentAuthorizer
	Shipment ports.Dispatcher
}

// Service is the lifecycle coordinator: it bundles every cart, order and
// stock use case behind one API surface.
type Service struct {
	createCartHandler  *commands.CreateCartCommandHandler
	addToCartHandler   *commands.AddToCartCommandHandler
	removeHandler      *commands.RemoveFromCartCommandHandler
	cancelCartHandler  *commands.CancelCartCommandHandler
	checkoutHandler    commands.CheckoutHandler
	payHandler         commands.PayHandler
	payAsGuestHandler  commands.PayAsGuestHandler
	cancelOrderHandler *commands.CancelOrderCommandHandler
	getCartHandler     *queries.GetCartQueryHandler
	listOrdersHandler  *queries.ListCustomerOrdersQueryHandler
	idemStore          ports.IdempotencyStore
}

// NewService wires required dependencies.
func NewService(
	repos Repositories,
	collab Collaborators,
	idem ports.IdempotencyStore,
	tx ports.Transactor,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	checkout := commands.NewCheckoutCommandHandler(repos.Carts, repos.Orders, repos.Customers, collab.Notifier, tx, logger)
	pay := commands.NewPayCommandHandler(repos.Orders, repos.Carts, repos.Customers, collab.Payment, collab.Shipment, collab.Notifier, tx, logger)
	guestPay := commands.NewPayAsGuestCommandHandler(repos.Carts, repos.Orders, repos.Customers, collab.Payment, collab.Shipment, collab.Notifier, tx, logger)

	return &Service{
		createCartHandler:  commands.NewCreateCartCommandHandler(repos.Carts),
		addToCartHandler:   commands.NewAddToCartCommandHandler(repos.Carts, repos.Stock, collab.Catalog, tx),
		removeHandler:      commands.NewRemoveFromCartCommandHandler(repos.Carts, repos.Stock, tx),
		cancelCartHandler:  commands.NewCancelCartCommandHandler(repos.Carts, repos.Stock, tx),
		checkoutHandler:    commands.NewObservableCheckoutHandler(checkout, logger, m),
		payHandler:         commands.NewObservablePayHandler(pay, logger, m),
		payAsGuestHandler:  commands.NewObservablePayAsGuestHandler(guestPay, logger, m),
		cancelOrderHandler: commands.NewCancelOrderCommandHandler(repos.Orders, repos.Carts, repos.Stock, repos.Customers, collab.Notifier, tx, logger),
		getCartHandler:     queries.NewGetCartQueryHandler(repos.Carts),
		listOrdersHandler:  queries.NewListCustomerOrdersQueryHandler(repos.Orders, repos.Customers),
		idemStore:          idem,
	}
}

// CreateCart opens a new empty cart.
func (s *Service) CreateCart(ctx context.Context) (*domain.Cart, error) {
	return s.createCartHandler.Handle(ctx)
}

// AddToCart reserves stock and merges the product into the cart.
func (s *Service) AddToCart(ctx context.Context, cartID string, productID int64, qty int) (*domain.Cart, error) {
	return s.addToCartHandler.Handle(ctx, commands.AddToCartCommand{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
	})
}

// RemoveFromCart shrinks or drops a cart line and releases the stock.
func (s *Service) RemoveFromCart(ctx context.Context, cartID string, productID int64, qty int) (*domain.Cart, error) {
	return s.removeHandler.Handle(ctx, commands.RemoveFromCartCommand{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
	})
}

// ShowCart returns the cart projection, hiding finalized carts.
func (s *Service) ShowCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.getCartHandler.Handle(ctx, queries.GetCartQuery{CartID: cartID})
}

// CancelCart releases every reservation the cart holds and deletes it.
func (s *Service) CancelCart(ctx context.Context, cartID string) error {
	return s.cancelCartHandler.Handle(ctx, commands.CancelCartCommand{CartID: cartID})
}

// Checkout finalizes the cart into an unpaid order for the authenticated
// customer.
func (s *Service) Checkout(ctx context.Context, cartID, username, password string) (*domain.Order, error) {
	return s.checkoutHandler.Handle(ctx, commands.CheckoutCommand{
		CartID:   cartID,
		Username: username,
		Password: password,
	})
}

// Pay settles an unpaid order of the authenticated customer.
func (s *Service) Pay(ctx context.Context, orderID, username, password string) (*domain.Order, error) {
	return s.payHandler.Handle(ctx, commands.PayCommand{
		OrderID:  orderID,
		Username: username,
		Password: password,
	})
}

// PayAsGuest checks out and pays a cart in one synchronous step.
func (s *Service) PayAsGuest(ctx context.Context, cartID string, details domain.GuestDetails) (*domain.Order, error) {
	return s.payAsGuestHandler.Handle(ctx, commands.PayAsGuestCommand{
		CartID:  cartID,
		Details: details,
	})
}

// CancelOrder cancels an unpaid order on behalf of its owner.
func (s *Service) CancelOrder(ctx context.Context, orderID, username, password string) error {
	return s.cancelOrderHandler.Handle(ctx, commands.CancelOrderCommand{
		OrderID:  orderID,
		Username: username,
		Password: password,
	})
}

// ExpireOrder cancels an unpaid order on the system's behalf. The
// reconciliation scheduler uses it so expiry and interactive cancellation
// share one code path.
func (s *Service) ExpireOrder(ctx context.Context, orderID string) error {
	return s.cancelOrderHandler.Handle(ctx, commands.CancelOrderCommand{OrderID: orderID})
}

// ListCustomerOrders returns the authenticated customer's orders.
func (s *Service) ListCustomerOrders(ctx context.Context, username, password string) ([]domain.Order, error) {
	return s.listOrdersHandler.Handle(ctx, queries.ListCustomerOrdersQuery{
		Username: username,
		Password: password,
	})
}

// ReserveIdempotencyKey claims a key for the calling request. It reports
// false when another request already holds or completed the key.
func (s *Service) ReserveIdempotencyKey(ctx context.Context, key string) (bool, error) {
	return s.idemStore.Reserve(ctx, key)
}

// ReleaseIdempotencyKey frees a reserved key after a failed checkout.
func (s *Service) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return s.idemStore.Release(ctx, key)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
