package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// allowedOrigins is the fixed list of storefront origins permitted to
// call this API from a browser.
var allowedOrigins = []string{
	"https://materialespayan.online",
	"https://www.materialespayan.online",
	"http://localhost:5500",
	"http://127.0.0.1:5500",
}

// NewRouter assembles the chi router. metricsHandler serves /metrics;
// pass nil to leave metrics unexposed (tests).
func NewRouter(handler *Handler, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/", handler.Health)
	r.Get("/healthz", handler.Healthz)
	r.Post("/api/checkout", handler.Checkout)
	r.Post("/api/shipping-quote", handler.ShippingQuote)
	r.Post("/api/mp/webhook", handler.Webhook)
	r.Get("/api/test-whatsapp", handler.TestWhatsApp)
	r.Post("/api/test-whatsapp", handler.TestWhatsApp)
	r.Get("/api/debug/last-webhook", handler.LastWebhook)

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
