// Package webhook receives payment processor event deliveries and feeds them
// to the subscription reconciler.
package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"github.com/dukerupert/vidar/internal/billing"
	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/handler"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// maxPayloadBytes caps webhook bodies. Stripe events are small; anything
// bigger is not a legitimate delivery.
const maxPayloadBytes = 1 << 20

// eventProvider tags ledger rows for this processor.
const eventProvider = "stripe"

// StripeHandler verifies, deduplicates and dispatches Stripe webhook events.
//
// The contract with Stripe: 2xx acknowledges the delivery as final, anything
// else triggers a retry of the whole event. So the handler rejects only what
// a retry could fix or what must never be processed (bad signatures,
// unparseable envelopes, store failures) and acknowledges everything else,
// including event types it does not care about and events whose target
// profile cannot be resolved.
type StripeHandler struct {
	provider   billing.Provider
	reconciler domain.SubscriptionReconciler
	events     domain.WebhookEventStore
	secret     string
	logger     *slog.Logger
}

func NewStripeHandler(
	provider billing.Provider,
	reconciler domain.SubscriptionReconciler,
	events domain.WebhookEventStore,
	secret string,
	logger *slog.Logger,
) *StripeHandler {
	return &StripeHandler{
		provider:   provider,
		reconciler: reconciler,
		events:     events,
		secret:     secret,
		logger:     logger,
	}
}

// HandleWebhook processes POST /webhooks/stripe.
func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "error reading request body"))
		return
	}

	// Nothing is parsed or acted on before the signature verifies.
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "missing signature"))
		return
	}
	if err := h.provider.VerifyWebhookSignature(payload, signature, h.secret); err != nil {
		h.logger.Warn("webhook signature verification failed", slog.String("error", err.Error()))
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "invalid signature"))
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("webhook.stripe", "invalid event payload"))
		return
	}

	logger := h.logger.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)))

	if telemetry.Business != nil {
		telemetry.Business.WebhookReceived.WithLabelValues(string(event.Type)).Inc()
		defer func() {
			telemetry.Business.WebhookLatency.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
		}()
	}

	firstSeen, err := h.events.MarkEventSeen(r.Context(), eventProvider, event.ID, string(event.Type))
	if err != nil {
		// The ledger is unavailable; processing anyway is safe because
		// every apply is idempotent.
		logger.Warn("webhook ledger unavailable, processing without dedup", slog.String("error", err.Error()))
	} else if !firstSeen {
		logger.Info("webhook replay, skipping")
		ack(w)
		return
	}

	if err := h.dispatch(r, event, logger); err != nil {
		// Store failure mid-apply. Not acknowledging makes Stripe retry;
		// the retry reprocesses even though the ledger row exists because
		// convergence needs the state write, not the ledger.
		logger.Error("webhook processing failed", slog.String("error", err.Error()))
		if telemetry.Business != nil {
			telemetry.Business.WebhookFailed.WithLabelValues(string(event.Type), "store_error").Inc()
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.WebhookProcessed.WithLabelValues(string(event.Type)).Inc()
	}
	ack(w)
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"received":true}`)) //nolint:errcheck
}

// dispatch decodes the typed payload and applies it. Payloads that fail to
// decode are dropped without touching stored state; a redelivery of the same
// bytes would fail the same way.
func (h *StripeHandler) dispatch(r *http.Request, event stripe.Event, logger *slog.Logger) error {
	ctx := r.Context()

	switch event.Type {
	case "checkout.session.completed":
		session, err := decodeEvent[stripe.CheckoutSession](event)
		if err != nil {
			h.dropMalformed(event, logger, err)
			return nil
		}
		return h.reconciler.ApplyCheckoutCompleted(ctx, checkoutCompletedEvent(session))

	case "customer.subscription.created", "customer.subscription.updated":
		sub, err := decodeEvent[stripe.Subscription](event)
		if err != nil {
			h.dropMalformed(event, logger, err)
			return nil
		}
		return h.reconciler.ApplySubscriptionChange(ctx, subscriptionChangeEvent(sub, false))

	case "customer.subscription.deleted":
		sub, err := decodeEvent[stripe.Subscription](event)
		if err != nil {
			h.dropMalformed(event, logger, err)
			return nil
		}
		return h.reconciler.ApplySubscriptionChange(ctx, subscriptionChangeEvent(sub, true))

	case "invoice.paid", "invoice.payment_succeeded":
		invoice, err := decodeEvent[stripe.Invoice](event)
		if err != nil {
			h.dropMalformed(event, logger, err)
			return nil
		}
		return h.reconciler.ApplyInvoicePaid(ctx, invoiceEvent(invoice))

	case "invoice.payment_failed":
		invoice, err := decodeEvent[stripe.Invoice](event)
		if err != nil {
			h.dropMalformed(event, logger, err)
			return nil
		}
		return h.reconciler.ApplyInvoicePaymentFailed(ctx, invoiceEvent(invoice))

	default:
		logger.Info("unhandled webhook event type, acknowledging")
		return nil
	}
}

func decodeEvent[T any](event stripe.Event) (*T, error) {
	var v T
	if err := json.Unmarshal(event.Data.Raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *StripeHandler) dropMalformed(event stripe.Event, logger *slog.Logger, err error) {
	logger.Error("malformed webhook payload, dropping", slog.String("error", err.Error()))
	if telemetry.Business != nil {
		telemetry.Business.WebhookFailed.WithLabelValues(string(event.Type), "malformed_payload").Inc()
	}
}

// checkoutCompletedEvent extracts the reconciler's view of a completed
// checkout session. The user id rides in the session metadata written at
// session creation; a missing or malformed id resolves to uuid.Nil and the
// reconciler drops the event.
func checkoutCompletedEvent(session *stripe.CheckoutSession) domain.CheckoutCompletedEvent {
	ev := domain.CheckoutCompletedEvent{SessionID: session.ID}

	if raw, ok := session.Metadata["user_id"]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			ev.UserID = id
		}
	}
	if session.Customer != nil {
		ev.CustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		ev.SubscriptionID = session.Subscription.ID
	}
	return ev
}

func subscriptionChangeEvent(sub *stripe.Subscription, deleted bool) domain.SubscriptionChangeEvent {
	ev := domain.SubscriptionChangeEvent{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
		PeriodEnd:      billing.SubscriptionPeriodEnd(sub),
		Deleted:        deleted,
	}
	if sub.Customer != nil {
		ev.CustomerID = sub.Customer.ID
	}
	return ev
}

func invoiceEvent(invoice *stripe.Invoice) domain.InvoiceEvent {
	ev := domain.InvoiceEvent{InvoiceID: invoice.ID}

	if invoice.Customer != nil {
		ev.CustomerID = invoice.Customer.ID
	}
	if invoice.Parent != nil && invoice.Parent.SubscriptionDetails != nil &&
		invoice.Parent.SubscriptionDetails.Subscription != nil {
		ev.SubscriptionID = invoice.Parent.SubscriptionDetails.Subscription.ID
	}
	return ev
}
