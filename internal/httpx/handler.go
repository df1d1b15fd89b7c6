// Package httpx is the HTTP surface of the storefront backend: route
// registration, request decoding, and the mapping from domain errors to
// status codes. All business behavior lives in the packages it wires
// together.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/materialespayan/storefront-backend/internal/checkout"
	"github.com/materialespayan/storefront-backend/internal/notify"
	"github.com/materialespayan/storefront-backend/internal/shipping"
	"github.com/materialespayan/storefront-backend/internal/webhook"
	"github.com/materialespayan/storefront-backend/internal/webhook/ledger"
)

const serviceName = "materiales-payan-backend"

// maxWebhookBody caps how much of a callback body is read and stored.
const maxWebhookBody = 64 * 1024

type Handler struct {
	checkout   *checkout.Service
	estimator  *shipping.Estimator
	processor  *webhook.Processor
	sender     notify.Sender
	ledger     ledger.Ledger
	webhookURL string
	storeCP    string
}

func NewHandler(
	checkoutSvc *checkout.Service,
	estimator *shipping.Estimator,
	processor *webhook.Processor,
	sender notify.Sender,
	ldg ledger.Ledger,
	webhookURL, storeCP string,
) *Handler {
	return &Handler{
		checkout:   checkoutSvc,
		estimator:  estimator,
		processor:  processor,
		sender:     sender,
		ledger:     ldg,
		webhookURL: webhookURL,
		storeCP:    storeCP,
	}
}

// Health reports liveness plus a non-sensitive echo of the config the
// storefront cares about.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		OK:         true,
		Service:    serviceName,
		WebhookURL: h.webhookURL,
		StoreCP:    h.storeCP,
	})
}

// Checkout validates the cart and opens a hosted payment session.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.checkout.CreateSession(r.Context(), checkout.Request{
		Cart:         req.Cart,
		Customer:     req.Customer,
		ShippingCost: resolveShippingCost(req),
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "empty_cart", "el carrito está vacío")
		return
	case errors.Is(err, checkout.ErrMissingCustomer):
		writeError(w, http.StatusBadRequest, "invalid_request", "nombre y teléfono son requeridos")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "checkout failed", "error", err)
		writeError(w, http.StatusBadGateway, "provider_error", "no se pudo crear el checkout")
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		CheckoutURL: result.CheckoutURL,
		OrderID:     result.OrderID,
	})
}

// ShippingQuote estimates the delivery cost to a destination postal code.
func (h *Handler) ShippingQuote(w http.ResponseWriter, r *http.Request) {
	var req ShippingQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	// Current storefront pages send postalCode; older ones send zip.
	postalCode := firstNonEmpty(req.PostalCode, req.Zip)
	if !validPostalCode(postalCode) {
		writeError(w, http.StatusBadRequest, "invalid_postal_code", "código postal inválido")
		return
	}

	quote, err := h.estimator.Estimate(r.Context(), postalCode)
	switch {
	case errors.Is(err, shipping.ErrNoResults):
		writeError(w, http.StatusBadRequest, "invalid_postal_code", "código postal no encontrado")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "shipping quote failed", "postal_code", postalCode, "error", err)
		writeError(w, http.StatusBadGateway, "provider_error", "no se pudo calcular el envío")
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// Webhook receives payment-status callbacks. It acknowledges the
// provider before any processing so provider-side retry storms are
// avoided; the actual work happens on a detached context.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))

	var body webhookBody
	_ = json.Unmarshal(raw, &body) // best effort, query params may carry everything

	query := r.URL.Query()
	// Precedence mirrors the provider's delivery modes: IPN-style query
	// params first, then the JSON body.
	topic := firstNonEmpty(query.Get("topic"), query.Get("type"), body.Type, body.Topic)
	paymentID := firstNonEmpty(query.Get("data.id"), query.Get("id"), body.Data.ID, body.ID)

	event := &ledger.Event{
		Topic:      topic,
		PaymentID:  paymentID,
		Raw:        string(raw),
		TraceID:    traceID(r.Context()),
		ReceivedAt: time.Now(),
	}
	if err := h.ledger.SaveLastEvent(r.Context(), event); err != nil {
		slog.ErrorContext(r.Context(), "failed to store webhook event", "error", err)
	}

	// Ack first; everything after this line is invisible to the caller.
	writeJSON(w, http.StatusOK, struct{}{})

	// Detach from the request context so processing is not cancelled
	// when the response is sent, while keeping tracing metadata.
	go h.processor.Run(context.WithoutCancel(r.Context()), topic, paymentID)
}

// TestWhatsApp sends a manual test message. Accepts GET with query
// params or POST with a JSON body.
func (h *Handler) TestWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req TestWhatsAppRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	}
	query := r.URL.Query()
	to := firstNonEmpty(req.To, query.Get("to"))
	text := firstNonEmpty(req.Text, query.Get("text"), "Prueba de WhatsApp desde el backend ✅")

	if to == "" {
		writeError(w, http.StatusBadRequest, "missing_to", "falta el número de destino")
		return
	}

	if err := h.sender.Send(r.Context(), to, text); err != nil {
		slog.ErrorContext(r.Context(), "test message failed", "to", to, "error", err)
		writeError(w, http.StatusBadGateway, "provider_error", "no se pudo enviar el mensaje")
		return
	}

	writeJSON(w, http.StatusOK, TestWhatsAppResponse{OK: true, To: to})
}

// LastWebhook exposes the most recent callback for debugging. Returns
// JSON null when nothing has been received.
func (h *Handler) LastWebhook(w http.ResponseWriter, r *http.Request) {
	event, err := h.ledger.LastEvent(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load last webhook", "error", err)
		writeError(w, http.StatusInternalServerError, "ledger_error", "")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Healthz is the bare liveness probe for orchestration.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validPostalCode(cp string) bool {
	if len(cp) != 5 {
		return false
	}
	for _, r := range cp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
