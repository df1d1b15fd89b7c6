package httpx

import "github.com/materialespayan/storefront-backend/internal/order"

type CheckoutRequest struct {
	Cart     []order.CartItem `json:"cart"`
	Customer *order.Customer  `json:"customer"`
	// Shipping cost arrives in two shapes depending on the storefront
	// revision: an object with a cost field, or a flat number. See
	// resolveShippingCost for the precedence.
	Shipping     *ShippingInfo `json:"shipping"`
	ShippingCost float64       `json:"shippingCost"`
}

type ShippingInfo struct {
	Cost float64 `json:"cost"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	OrderID     string `json:"orderId"`
}

type ShippingQuoteRequest struct {
	PostalCode string `json:"postalCode"`
	// Zip is the legacy field name still sent by older storefront pages.
	Zip string `json:"zip"`
}

type TestWhatsAppRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type TestWhatsAppResponse struct {
	OK bool   `json:"ok"`
	To string `json:"to"`
}

type HealthResponse struct {
	OK         bool   `json:"ok"`
	Service    string `json:"service"`
	WebhookURL string `json:"webhookUrl"`
	StoreCP    string `json:"storePostalCode"`
}

// webhookBody covers the payload shapes the provider sends: the current
// {"type": ..., "data": {"id": ...}} form and the legacy flat id form.
type webhookBody struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
	ID    string `json:"id"`
	Data  struct {
		ID string `json:"id"`
	} `json:"data"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
