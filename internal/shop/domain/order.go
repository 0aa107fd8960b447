package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus captures the payment state of a placed order.
type OrderStatus string

const (
	OrderStatusUnpaid OrderStatus = "UNPAID"
	OrderStatusPaid   OrderStatus = "PAID"
)

// PaymentDueWindow is the grace period between placing an order and its
// payment due date.
const PaymentDueWindow = 14 * 24 * time.Hour

// OrderLine is a frozen copy of a cart line taken at checkout. Later stock or
// price changes never alter it.
type OrderLine struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Order is an immutable-once-placed record of a finalized cart. CustomerID is
// nil for guest orders once the transient guest record has been removed, and
// CartID is cleared when payment completes.
type Order struct {
	ID           string      `json:"id"`
	CustomerID   *int64      `json:"customer_id,omitempty"`
	CartID       *string     `json:"cart_id,omitempty"`
	Status       OrderStatus `json:"status"`
	Lines        []OrderLine `json:"lines"`
	TotalCents   int64       `json:"total_cents"`
	CreatedAt    time.Time   `json:"created_at"`
	PaidAt       *time.Time  `json:"paid_at,omitempty"`
	PaymentDueAt time.Time   `json:"payment_due_at"`
}

// NewOrder snapshots a cart into an UNPAID order bound to the customer.
func NewOrder(id string, customerID *int64, cart *Cart, now time.Time) *Order {
	lines := make([]OrderLine, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = OrderLine{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		}
	}

	cartID := cart.ID
	return &Order{
		ID:           id,
		CustomerID:   customerID,
		CartID:       &cartID,
		Status:       OrderStatusUnpaid,
		Lines:        lines,
		TotalCents:   cart.Total(),
		CreatedAt:    now,
		PaymentDueAt: now.Add(PaymentDueWindow),
	}
}

// MarkPaid records payment and detaches the cart reference. A PAID order is
// reported as not found, matching how finalized carts hide from mutation.
func (o *Order) MarkPaid(now time.Time) error {
	if o.Status == OrderStatusPaid {
		return ErrOrderNotFound
	}
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.CartID = nil
	return nil
}

// RenderLines formats the frozen snapshot for notifications and shipment
// manifests, one line per product.
func (o *Order) RenderLines() string {
	parts := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		total := l.UnitPriceCents * int64(l.Quantity)
		parts[i] = fmt.Sprintf("product: %s, quantity: %d, total price: %d.%02d",
			l.ProductName, l.Quantity, total/100, total%100)
	}
	return strings.Join(parts, "\n")
}
