package domain

import "time"

// CartStatus captures the lifecycle of a cart.
type CartStatus string

const (
	CartStatusEmpty      CartStatus = "EMPTY"
	CartStatusProcessing CartStatus = "PROCESSING"
	CartStatusFinalized  CartStatus = "FINALIZED"
)

// CartLine is one (product, quantity) entry of a cart. The unit price is a
// snapshot taken from the catalog when the line was created or last grown; it
// is not re-read on total computation.
type CartLine struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Cart is the mutable pre-order basket. Line order is kept for display only.
type Cart struct {
	ID         string     `json:"id"`
	Status     CartStatus `json:"status"`
	Lines      []CartLine `json:"lines"`
	TotalCents int64      `json:"total_cents"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewCart returns an empty cart created at the given instant.
func NewCart(id string, now time.Time) *Cart {
	return &Cart{
		ID:        id,
		Status:    CartStatusEmpty,
		CreatedAt: now,
	}
}

// AddLine merges qty units of the product into an existing line or appends a
// new one, moves the cart to PROCESSING and recomputes the total. A FINALIZED
// cart is reported as not found.
func (c *Cart) AddLine(product Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if c.Status == CartStatusFinalized {
		return ErrCartNotFound
	}

	merged := false
	for i := range c.Lines {
		if c.Lines[i].ProductID == product.ID {
			c.Lines[i].Quantity += qty
			c.Lines[i].UnitPriceCents = product.PriceCents
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, CartLine{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       qty,
			UnitPriceCents: product.PriceCents,
		})
	}

	c.Status = CartStatusProcessing
	c.TotalCents = c.Total()
	return nil
}

// RemoveLine removes up to qty units of the product and returns the quantity
// actually released. Removing qty >= the line quantity deletes the whole line;
// when the last line goes the cart reverts to EMPTY. EMPTY and FINALIZED carts
// are reported as not found, a missing line as product not found.
func (c *Cart) RemoveLine(productID int64, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	if c.Status != CartStatusProcessing {
		return 0, ErrCartNotFound
	}

	idx := -1
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrProductNotFound
	}

	released := qty
	if qty >= c.Lines[idx].Quantity {
		released = c.Lines[idx].Quantity
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	} else {
		c.Lines[idx].Quantity -= qty
	}

	if len(c.Lines) == 0 {
		c.Status = CartStatusEmpty
	}
	c.TotalCents = c.Total()
	return released, nil
}

// Finalize moves a PROCESSING cart to its terminal FINALIZED state. Any other
// status is reported as not found, including a cart finalized earlier.
func (c *Cart) Finalize() error {
	if c.Status != CartStatusProcessing {
		return ErrCartNotFound
	}
	c.Status = CartStatusFinalized
	return nil
}

// Total is the sum of unit price times quantity over live lines. Carts outside
// PROCESSING always total zero.
func (c *Cart) Total() int64 {
	if c.Status != CartStatusProcessing {
		return 0
	}
	var sum int64
	for _, line := range c.Lines {
		sum += line.UnitPriceCents * int64(line.Quantity)
	}
	return sum
}
