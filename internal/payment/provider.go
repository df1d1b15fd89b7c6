// Package payment defines the port this service needs from its payment
// provider: create a hosted checkout session and fetch the authoritative
// state of a payment. The HTTP surface and webhook worker depend on this
// interface, not on Mercado Pago directly.
package payment

import (
	"context"

	"github.com/materialespayan/storefront-backend/internal/order"
)

// Payment lifecycle statuses as reported by the provider. Anything not
// listed here is carried through verbatim and treated as "other".
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

type LineItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// SessionRequest is everything needed to open a hosted checkout session.
type SessionRequest struct {
	Items           []LineItem     `json:"items"`
	BackURLs        BackURLs       `json:"back_urls"`
	AutoReturn      string         `json:"auto_return"`
	NotificationURL string         `json:"notification_url,omitempty"`
	Metadata        order.Metadata `json:"metadata"`
}

// Session is the provider's created checkout session. InitPoint is the
// hosted page the customer is redirected to.
type Session struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Payment is the provider's authoritative record of a payment, including
// the metadata attached at session-creation time.
type Payment struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Metadata order.Metadata `json:"metadata"`
}

type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}
