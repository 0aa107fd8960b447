package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jshop/jshop/internal/shop/adapters/memory"
	"github.com/jshop/jshop/internal/shop/domain"
)

var (
	keyboard = domain.Product{ID: 1, Name: "keyboard", PriceCents: 4999, Category: "peripherals"}
	mouse    = domain.Product{ID: 2, Name: "mouse", PriceCents: 1950, Category: "peripherals"}
)

// fixture bundles the in-memory adapters every command test runs against.
type fixture struct {
	carts     *memory.CartRepository
	orders    *memory.OrderRepository
	stock     *memory.StockRepository
	customers *memory.CustomerRepository
	catalog   *memory.Catalog
	tx        *memory.Transactor
	notifier  *recordingNotifier
	payment   *stubAuthorizer
	shipment  *recordingDispatcher
	logger    *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	customers := memory.NewCustomerRepository()

	f := &fixture{
		carts:     memory.NewCartRepository(),
		orders:    memory.NewOrderRepository(customers),
		stock:     memory.NewStockRepository(),
		customers: customers,
		catalog:   memory.NewCatalog(),
		tx:        memory.NewTransactor(),
		notifier:  &recordingNotifier{},
		payment:   &stubAuthorizer{approved: true},
		shipment:  &recordingDispatcher{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	f.catalog.Add(keyboard)
	f.catalog.Add(mouse)
	f.stock.Set(keyboard.ID, 10)
	f.stock.Set(mouse.ID, 5)

	return f
}

// seedCustomer registers a customer with the given credentials.
func (f *fixture) seedCustomer(t *testing.T, username, password string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate password hash: %v", err)
	}

	return f.customers.Add(domain.Customer{
		Username:     username,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "Customer",
		Email:        username + "@example.com",
	})
}

// seedProcessingCart stores a PROCESSING cart with the given line, reserving
// the stock like the add handler would.
func (f *fixture) seedProcessingCart(t *testing.T, id string, product domain.Product, qty int) *domain.Cart {
	t.Helper()

	cart := domain.NewCart(id, time.Now().UTC())
	if err := cart.AddLine(product, qty); err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
	if _, err := f.stock.Reserve(context.Background(), product.ID, qty); err != nil {
		t.Fatalf("seed stock reservation: %v", err)
	}
	if err := f.carts.Create(context.Background(), *cart); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return cart
}

func (f *fixture) stockLevel(t *testing.T, productID int64) int {
	t.Helper()
	qty, err := f.stock.Lookup(context.Background(), productID)
	if err != nil {
		t.Fatalf("lookup stock: %v", err)
	}
	return qty
}

type sentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

type recordingNotifier struct {
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, recipient, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

type stubAuthorizer struct {
	approved bool
	err      error
	calls    int
}

func (a *stubAuthorizer) Authorize(_ context.Context, _ domain.Order) (bool, error) {
	a.calls++
	return a.approved, a.err
}

type recordingDispatcher struct {
	dispatched []domain.Order
}

func (d *recordingDispatcher) Dispatch(_ context.Context, order domain.Order) error {
	d.dispatched = append(d.dispatched, order)
	return nil
}

// guestTracker wraps the memory customer repository and records every guest
// snapshot it creates.
type guestTracker struct {
	*memory.CustomerRepository
	createdGuests []int64
}

func (c *guestTracker) CreateGuest(ctx context.Context, customer domain.Customer) (int64, error) {
	id, err := c.CustomerRepository.CreateGuest(ctx, customer)
	if err == nil {
		c.createdGuests = append(c.createdGuests, id)
	}
	return id, err
}

// failingStock wraps the memory stock repository and fails Release, for
// exercising compensation error paths.
type failingStock struct {
	*memory.StockRepository
}

var errStockDown = errors.New("stock store unavailable")

func (s *failingStock) Release(_ context.Context, _ int64, _ int) error {
	return errStockDown
}
