package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materialespayan/storefront-backend/internal/order"
	"github.com/materialespayan/storefront-backend/internal/payment"
)

func TestClient_CreateSession(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp.test/checkout/pref-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	session, err := client.CreateSession(context.Background(), payment.SessionRequest{
		Items: []payment.LineItem{
			{Title: "Cemento gris 50kg", Quantity: 2, UnitPrice: 230, CurrencyID: "MXN"},
		},
		AutoReturn: "approved",
		Metadata:   order.Metadata{OrderID: "ord-123"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "https://mp.test/checkout/pref-1", session.InitPoint)
	assert.Equal(t, "pref-1", session.ID)

	items, ok := gotBody["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Cemento gris 50kg", item["title"])
	assert.Equal(t, "MXN", item["currency_id"])
}

func TestClient_CreateSession_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid items"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	_, err := client.CreateSession(context.Background(), payment.SessionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestClient_CreateSession_MissingInitPoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pref-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	_, err := client.CreateSession(context.Background(), payment.SessionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init_point")
}

func TestClient_GetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payments/12345", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		// The payments API reports ids as numbers and echoes metadata
		// exactly as attached at preference time.
		_, _ = w.Write([]byte(`{
			"id": 12345,
			"status": "approved",
			"metadata": {
				"order_id": "ord-123",
				"customer": {"name": "Ana", "phone": "3111234567"},
				"cart": [{"id": "p1", "name": "Varilla 3/8", "price": 185.5, "quantity": 4}]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	p, err := client.GetPayment(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, "12345", p.ID)
	assert.Equal(t, payment.StatusApproved, p.Status)
	assert.Equal(t, "ord-123", p.Metadata.OrderID)
	require.NotNil(t, p.Metadata.Customer)
	assert.Equal(t, "Ana", p.Metadata.Customer.Name)
	require.Len(t, p.Metadata.Cart, 1)
	assert.Equal(t, "Varilla 3/8", p.Metadata.Cart[0].Name)
}

func TestClient_GetPayment_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"payment not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	_, err := client.GetPayment(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
