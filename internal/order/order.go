// Package order holds the domain types shared by checkout and webhook
// processing. An order is ephemeral: it exists in a request, travels to
// the payment provider inside the session metadata, and comes back
// unchanged in the provider's payment record. Nothing is persisted here.
package order

import "math"

type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"img,omitempty"`
}

// Subtotal is the line total for this item. A missing quantity counts
// as one, matching how the storefront sends single-item carts.
func (i CartItem) Subtotal() float64 {
	qty := i.Quantity
	if qty <= 0 {
		qty = 1
	}
	return float64(qty) * i.Price
}

type Customer struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Metadata is the opaque payload attached to a checkout session and
// echoed back by the provider when the payment is later fetched.
type Metadata struct {
	OrderID  string     `json:"order_id"`
	Customer *Customer  `json:"customer,omitempty"`
	Cart     []CartItem `json:"cart,omitempty"`
}

// CartTotal sums the item subtotals, rounded to 2 decimal places.
func CartTotal(cart []CartItem) float64 {
	var total float64
	for _, item := range cart {
		total += item.Subtotal()
	}
	return math.Round(total*100) / 100
}
