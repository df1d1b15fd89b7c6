// Package webhook processes payment-status callbacks. The HTTP layer
// acknowledges the provider immediately and hands the event to a
// Processor on a detached context; everything here runs after the
// response has been sent, so failures are logged and counted, never
// returned to the provider.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/materialespayan/storefront-backend/internal/notify"
	"github.com/materialespayan/storefront-backend/internal/order"
	"github.com/materialespayan/storefront-backend/internal/payment"
	"github.com/materialespayan/storefront-backend/internal/webhook/ledger"
)

// TopicPayment is the only callback topic that triggers processing.
const TopicPayment = "payment"

type Processor struct {
	provider   payment.Provider
	sender     notify.Sender
	ledger     ledger.Ledger
	ownerPhone string
	failures   metric.Int64Counter
}

func NewProcessor(provider payment.Provider, sender notify.Sender, ldg ledger.Ledger, ownerPhone string) *Processor {
	meter := otel.Meter("storefront/webhook")
	failures, _ := meter.Int64Counter("webhook_processing_failures_total",
		metric.WithDescription("Webhook events that failed after acknowledgment"))

	return &Processor{
		provider:   provider,
		sender:     sender,
		ledger:     ldg,
		ownerPhone: ownerPhone,
		failures:   failures,
	}
}

// Run processes one callback and absorbs the outcome: errors are logged
// and counted. Intended to be called in a goroutine after the ack.
func (p *Processor) Run(ctx context.Context, topic, paymentID string) {
	if err := p.process(ctx, topic, paymentID); err != nil {
		p.failures.Add(ctx, 1)
		slog.ErrorContext(ctx, "webhook processing failed",
			"topic", topic, "payment_id", paymentID, "error", err)
	}
}

func (p *Processor) process(ctx context.Context, topic, paymentID string) error {
	if topic != TopicPayment || paymentID == "" {
		slog.DebugContext(ctx, "ignoring webhook", "topic", topic, "payment_id", paymentID)
		return nil
	}

	// The callback payload is not trusted for status; fetch the
	// authoritative record from the provider.
	pay, err := p.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("webhook: fetch payment: %w", err)
	}

	if pay.Status != payment.StatusApproved {
		slog.InfoContext(ctx, "payment not approved, skipping notifications",
			"payment_id", paymentID, "status", pay.Status)
		return nil
	}

	notified, err := p.ledger.AlreadyNotified(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("webhook: check ledger: %w", err)
	}
	if notified {
		slog.InfoContext(ctx, "duplicate callback, notifications already sent", "payment_id", paymentID)
		return nil
	}

	if err := p.dispatch(ctx, pay); err != nil {
		return err
	}

	if err := p.ledger.MarkNotified(ctx, paymentID); err != nil {
		return fmt.Errorf("webhook: mark notified: %w", err)
	}

	slog.InfoContext(ctx, "order notifications sent",
		"payment_id", paymentID, "order_id", pay.Metadata.OrderID)
	return nil
}

// dispatch sends one message to the customer and one to the owner.
func (p *Processor) dispatch(ctx context.Context, pay *payment.Payment) error {
	meta := pay.Metadata
	total := order.CartTotal(meta.Cart)

	if meta.Customer != nil && meta.Customer.Phone != "" {
		msg := customerMessage(meta, total)
		if err := p.sender.Send(ctx, meta.Customer.Phone, msg); err != nil {
			return fmt.Errorf("webhook: notify customer: %w", err)
		}
	}

	if err := p.sender.Send(ctx, p.ownerPhone, ownerMessage(meta, total)); err != nil {
		return fmt.Errorf("webhook: notify owner: %w", err)
	}
	return nil
}

func customerMessage(meta order.Metadata, total float64) string {
	var b strings.Builder
	name := ""
	if meta.Customer != nil {
		name = meta.Customer.Name
	}
	fmt.Fprintf(&b, "¡Hola %s! Tu pago fue aprobado. 🎉\n", name)
	fmt.Fprintf(&b, "Pedido: %s\n", meta.OrderID)
	b.WriteString(cartSummary(meta.Cart))
	fmt.Fprintf(&b, "Total: $%.2f MXN\n", total)
	b.WriteString("Gracias por tu compra en Materiales Payán.")
	return b.String()
}

func ownerMessage(meta order.Metadata, total float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nuevo pedido aprobado 💰\n")
	fmt.Fprintf(&b, "Pedido: %s\n", meta.OrderID)
	if meta.Customer != nil {
		fmt.Fprintf(&b, "Cliente: %s (%s)\n", meta.Customer.Name, meta.Customer.Phone)
	}
	b.WriteString(cartSummary(meta.Cart))
	fmt.Fprintf(&b, "Total: $%.2f MXN", total)
	return b.String()
}

func cartSummary(cart []order.CartItem) string {
	var b strings.Builder
	for _, item := range cart {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		fmt.Fprintf(&b, "- %dx %s ($%.2f)\n", qty, item.Name, item.Subtotal())
	}
	return b.String()
}
