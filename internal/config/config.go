// Package config loads all runtime settings from environment variables.
//
// Credentials are validated at startup so a misconfigured deployment fails
// fast instead of erroring on the first checkout or notification.
package config

import (
	"errors"
	"os"
)

// Config holds every setting the server needs. It is built once in main()
// and handed to the components that need individual fields.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// MPAccessToken is the Mercado Pago bearer credential.
	MPAccessToken string
	// MPBaseURL overrides the Mercado Pago API base URL (tests, sandboxes).
	MPBaseURL string
	// WebhookURL is the public notification_url sent with each preference.
	WebhookURL string

	// WhatsAppToken is the messaging API bearer credential.
	WhatsAppToken string
	// WhatsAppPhoneID is the sender identifier registered with the
	// messaging provider.
	WhatsAppPhoneID string
	// WhatsAppBaseURL overrides the messaging API base URL.
	WhatsAppBaseURL string
	// OwnerPhone receives a copy of every approved-order notification.
	OwnerPhone string

	// StorePostalCode is the shipping origin. Quotes to this exact code
	// short-circuit to zero cost.
	StorePostalCode string
	// GeocodeBaseURL and RouteBaseURL point at the public geocoding and
	// routing services used for shipping quotes.
	GeocodeBaseURL string
	RouteBaseURL   string

	// RedisAddr, when set, switches the coordinate cache from the in-process
	// bounded map to Redis.
	RedisAddr string
	// LedgerPath, when set, persists the notification ledger to SQLite at
	// this path instead of keeping it in memory.
	LedgerPath string
}

var (
	ErrMissingMPToken       = errors.New("config: MP_ACCESS_TOKEN is required")
	ErrMissingWhatsAppCreds = errors.New("config: WHATSAPP_TOKEN and WHATSAPP_PHONE_ID are required")
)

// Load reads the environment and validates required credentials.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		MPAccessToken:   os.Getenv("MP_ACCESS_TOKEN"),
		MPBaseURL:       getEnv("MP_BASE_URL", "https://api.mercadopago.com"),
		WebhookURL:      getEnv("MP_WEBHOOK_URL", "https://api.materialespayan.online/api/mp/webhook"),
		WhatsAppToken:   os.Getenv("WHATSAPP_TOKEN"),
		WhatsAppPhoneID: os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppBaseURL: getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
		OwnerPhone:      getEnv("OWNER_PHONE", "523111234567"),
		StorePostalCode: getEnv("STORE_POSTAL_CODE", "63000"),
		GeocodeBaseURL:  getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		RouteBaseURL:    getEnv("ROUTE_BASE_URL", "https://router.project-osrm.org"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		LedgerPath:      os.Getenv("LEDGER_PATH"),
	}

	if cfg.MPAccessToken == "" {
		return nil, ErrMissingMPToken
	}
	if cfg.WhatsAppToken == "" || cfg.WhatsAppPhoneID == "" {
		return nil, ErrMissingWhatsAppCreds
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
