package domain

// Product is a catalog entry. The catalog owns it; this core only reads the
// price when a cart line is created or updated.
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Category   string `json:"category"`
}
