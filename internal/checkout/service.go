// Package checkout turns a storefront cart into a hosted payment
// session. Validation and line-item shaping happen here; session
// creation is delegated to the payment provider.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/materialespayan/storefront-backend/internal/order"
	"github.com/materialespayan/storefront-backend/internal/payment"
)

const currency = "MXN"

// deliveryItemTitle names the synthetic line item appended when a
// positive shipping cost accompanies the cart.
const deliveryItemTitle = "Envío a domicilio"

// Redirect destinations for the hosted checkout. Fixed storefront pages.
var backURLs = payment.BackURLs{
	Success: "https://materialespayan.online/pago-exitoso.html",
	Failure: "https://materialespayan.online/pago-fallo.html",
	Pending: "https://materialespayan.online/pago-pendiente.html",
}

var (
	ErrEmptyCart       = errors.New("checkout: cart is empty")
	ErrMissingCustomer = errors.New("checkout: customer name and phone are required")
)

// Request carries everything the storefront submits to open a session.
// ShippingCost is already resolved by the HTTP layer from its possible
// sources; zero means no delivery line item.
type Request struct {
	Cart         []order.CartItem
	Customer     *order.Customer
	ShippingCost float64
}

// Result is what the storefront needs to redirect the customer.
type Result struct {
	CheckoutURL string
	OrderID     string
}

type Service struct {
	provider   payment.Provider
	webhookURL string
}

func NewService(provider payment.Provider, webhookURL string) *Service {
	return &Service{provider: provider, webhookURL: webhookURL}
}

// CreateSession validates the request, builds the provider session and
// returns its redirect URL together with a fresh opaque order id. The
// order id round-trips through the provider's metadata and is the only
// correlation token between checkout and the later webhook.
func (s *Service) CreateSession(ctx context.Context, req Request) (*Result, error) {
	if len(req.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	if req.Customer == nil || req.Customer.Name == "" || req.Customer.Phone == "" {
		return nil, ErrMissingCustomer
	}

	items := make([]payment.LineItem, 0, len(req.Cart)+1)
	for _, item := range req.Cart {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, payment.LineItem{
			Title:      item.Name,
			Quantity:   qty,
			UnitPrice:  item.Price,
			CurrencyID: currency,
		})
	}

	if req.ShippingCost > 0 {
		items = append(items, payment.LineItem{
			Title:      deliveryItemTitle,
			Quantity:   1,
			UnitPrice:  req.ShippingCost,
			CurrencyID: currency,
		})
	}

	orderID := uuid.NewString()

	session, err := s.provider.CreateSession(ctx, payment.SessionRequest{
		Items:           items,
		BackURLs:        backURLs,
		AutoReturn:      "approved",
		NotificationURL: s.webhookURL,
		Metadata: order.Metadata{
			OrderID:  orderID,
			Customer: req.Customer,
			Cart:     req.Cart,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: create session: %w", err)
	}

	slog.InfoContext(ctx, "checkout session created",
		"order_id", orderID,
		"items", len(req.Cart),
		"shipping_cost", req.ShippingCost,
	)

	return &Result{CheckoutURL: session.InitPoint, OrderID: orderID}, nil
}
