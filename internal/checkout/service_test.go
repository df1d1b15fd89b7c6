package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materialespayan/storefront-backend/internal/order"
	"github.com/materialespayan/storefront-backend/internal/payment"
)

// fakeProvider records the session request and returns a canned session.
type fakeProvider struct {
	calls   int
	lastReq payment.SessionRequest
	err     error
}

func (f *fakeProvider) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Session{ID: "pref-1", InitPoint: "https://mp.test/checkout/pref-1"}, nil
}

func (f *fakeProvider) GetPayment(context.Context, string) (*payment.Payment, error) {
	panic("not used by checkout")
}

func validRequest() Request {
	return Request{
		Cart: []order.CartItem{
			{ID: "p1", Name: "Cemento gris 50kg", Price: 230, Quantity: 2},
			{ID: "p2", Name: "Varilla 3/8", Price: 185.5, Quantity: 4},
		},
		Customer: &order.Customer{Name: "Ana", Phone: "3111234567"},
	}
}

func TestCreateSession(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, "https://api.test/api/mp/webhook")

	result, err := svc.CreateSession(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://mp.test/checkout/pref-1", result.CheckoutURL)
	assert.NotEmpty(t, result.OrderID)

	req := provider.lastReq
	require.Len(t, req.Items, 2)
	assert.Equal(t, "Cemento gris 50kg", req.Items[0].Title)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "MXN", req.Items[0].CurrencyID)
	assert.Equal(t, "approved", req.AutoReturn)
	assert.Equal(t, "https://api.test/api/mp/webhook", req.NotificationURL)
	assert.Equal(t, "https://materialespayan.online/pago-exitoso.html", req.BackURLs.Success)

	assert.Equal(t, result.OrderID, req.Metadata.OrderID)
	require.NotNil(t, req.Metadata.Customer)
	assert.Equal(t, "Ana", req.Metadata.Customer.Name)
	assert.Len(t, req.Metadata.Cart, 2)
}

func TestCreateSession_AppendsDeliveryLineItem(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, "")

	req := validRequest()
	req.ShippingCost = 584

	_, err := svc.CreateSession(context.Background(), req)
	require.NoError(t, err)

	items := provider.lastReq.Items
	require.Len(t, items, 3, "one line item per cart item plus one delivery item")
	last := items[2]
	assert.Equal(t, deliveryItemTitle, last.Title)
	assert.Equal(t, 1, last.Quantity)
	assert.InDelta(t, 584.0, last.UnitPrice, 0.001)
}

func TestCreateSession_ZeroShippingCostOmitsDeliveryItem(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, "")

	_, err := svc.CreateSession(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, provider.lastReq.Items, 2)
}

func TestCreateSession_EmptyCart(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, "")

	_, err := svc.CreateSession(context.Background(), Request{
		Customer: &order.Customer{Name: "Ana", Phone: "3111234567"},
	})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, provider.calls, "no provider call for an empty cart")
}

func TestCreateSession_MissingCustomer(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, "")

	req := validRequest()
	req.Customer = nil
	_, err := svc.CreateSession(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingCustomer)

	req = validRequest()
	req.Customer.Phone = ""
	_, err = svc.CreateSession(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingCustomer)
	assert.Zero(t, provider.calls)
}

func TestCreateSession_DefaultsQuantityToOne(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, "")

	req := validRequest()
	req.Cart = []order.CartItem{{ID: "p1", Name: "Pala", Price: 120}}

	_, err := svc.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.lastReq.Items[0].Quantity)
}

func TestCreateSession_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	svc := NewService(provider, "")

	_, err := svc.CreateSession(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}
