package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/materialespayan/storefront-backend/internal/checkout"
	"github.com/materialespayan/storefront-backend/internal/config"
	"github.com/materialespayan/storefront-backend/internal/httpx"
	"github.com/materialespayan/storefront-backend/internal/notify"
	"github.com/materialespayan/storefront-backend/internal/payment/mercadopago"
	"github.com/materialespayan/storefront-backend/internal/pkg/cache"
	"github.com/materialespayan/storefront-backend/internal/pkg/telemetry"
	"github.com/materialespayan/storefront-backend/internal/shipping"
	"github.com/materialespayan/storefront-backend/internal/webhook"
	"github.com/materialespayan/storefront-backend/internal/webhook/ledger"
	ledgersqlite "github.com/materialespayan/storefront-backend/internal/webhook/ledger/sqlite"
)

const serviceName = "storefront-backend"

func main() {
	ctx := context.Background()
	telemetry.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		slog.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMetrics, err := telemetry.SetupMetrics(serviceName)
	if err != nil {
		slog.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMetrics(context.Background()) }()

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	var coords cache.Cache
	if cfg.RedisAddr != "" {
		coords = cache.NewRedisCache(cfg.RedisAddr, serviceName)
		slog.Info("coordinate cache: redis", "addr", cfg.RedisAddr)
	} else {
		coords = cache.NewMemoryCache(serviceName, 512, 24*time.Hour)
	}

	var ldg ledger.Ledger
	if cfg.LedgerPath != "" {
		repo, err := ledgersqlite.Open(cfg.LedgerPath)
		if err != nil {
			slog.Error("failed to open notification ledger", "path", cfg.LedgerPath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = repo.Close() }()
		ldg = repo
		slog.Info("notification ledger: sqlite", "path", cfg.LedgerPath)
	} else {
		ldg = ledger.NewMemory()
	}

	sender, err := notify.NewWhatsAppClient(cfg.WhatsAppBaseURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneID, httpClient)
	if err != nil {
		slog.Error("failed to build messaging client", "error", err)
		os.Exit(1)
	}

	provider := mercadopago.NewClient(cfg.MPBaseURL, cfg.MPAccessToken, httpClient)

	estimator := shipping.NewEstimator(
		shipping.NewNominatimGeocoder(cfg.GeocodeBaseURL, httpClient),
		shipping.NewOSRMRouter(cfg.RouteBaseURL, httpClient),
		coords,
		cfg.StorePostalCode,
	)

	checkoutSvc := checkout.NewService(provider, cfg.WebhookURL)
	processor := webhook.NewProcessor(provider, sender, ldg, cfg.OwnerPhone)

	handler := httpx.NewHandler(checkoutSvc, estimator, processor, sender, ldg,
		cfg.WebhookURL, cfg.StorePostalCode)
	router := httpx.NewRouter(handler, metricsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "store_postal_code", cfg.StorePostalCode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
