package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/billing"
	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// ReconcilerConfig carries the reconciler's policy knobs.
type ReconcilerConfig struct {
	// CheckoutActivates makes a completed checkout session set the profile
	// status to active directly, instead of waiting for the subscription
	// lifecycle event. Off by default: checkout completion does not prove
	// the subscription is in good standing.
	CheckoutActivates bool
}

// Reconciler applies decoded webhook events to stored subscription state.
//
// Every write is last-write-wins on only the fields the event concerns, and
// targets a single row by exact id match, so replays and out-of-order
// deliveries converge on the same final state. Events whose target cannot be
// resolved are logged and dropped with a nil error; the processor treats any
// acknowledgment as final and will not redeliver a partially applied event.
type Reconciler struct {
	profiles domain.ProfileStore
	provider billing.Provider
	config   ReconcilerConfig
	logger   *slog.Logger
}

var _ domain.SubscriptionReconciler = (*Reconciler)(nil)

func NewReconciler(profiles domain.ProfileStore, provider billing.Provider, config ReconcilerConfig, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		profiles: profiles,
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// ApplyCheckoutCompleted links the session's customer and subscription ids to
// the profile named in the session metadata. Status is only touched when the
// checkout-activates policy is on.
func (r *Reconciler) ApplyCheckoutCompleted(ctx context.Context, event domain.CheckoutCompletedEvent) error {
	if event.UserID == uuid.Nil {
		r.logger.Warn("checkout completed without user metadata, dropping",
			slog.String("session_id", event.SessionID))
		return nil
	}

	params := domain.LinkCheckoutParams{
		ProfileID:      event.UserID,
		CustomerID:     event.CustomerID,
		SubscriptionID: event.SubscriptionID,
	}
	if r.config.CheckoutActivates {
		active := domain.SubscriptionActive
		params.Status = &active
	}

	rows, err := r.profiles.LinkCheckout(ctx, params)
	if err != nil {
		return domain.Internal(err, "reconcile.checkout_completed", "failed to link checkout")
	}
	if rows == 0 {
		r.logger.Warn("checkout completed for unknown profile, dropping",
			slog.String("session_id", event.SessionID),
			slog.String("user_id", event.UserID.String()))
		return nil
	}

	r.logger.Info("checkout linked",
		slog.String("user_id", event.UserID.String()),
		slog.String("subscription_id", event.SubscriptionID),
		slog.Bool("activated", r.config.CheckoutActivates))
	return nil
}

// ApplySubscriptionChange stores the event's subscription state. Resolution
// is by subscription id first, falling back to customer id for the first
// event of a subscription checkout has not linked yet. Deletion events force
// canceled regardless of the carried status.
func (r *Reconciler) ApplySubscriptionChange(ctx context.Context, event domain.SubscriptionChangeEvent) error {
	status := billing.NormalizeSubscriptionStatus(event.Status)
	if event.Deleted {
		status = domain.SubscriptionCanceled
	}

	update := domain.SubscriptionUpdate{
		SubscriptionID: event.SubscriptionID,
		CustomerID:     event.CustomerID,
		Status:         status,
		PeriodEnd:      event.PeriodEnd,
	}

	rows, err := r.profiles.UpdateSubscriptionBySubscriptionID(ctx, update)
	if err != nil {
		return domain.Internal(err, "reconcile.subscription_change", "failed to update subscription")
	}
	if rows == 0 && event.CustomerID != "" {
		rows, err = r.profiles.UpdateSubscriptionByCustomerID(ctx, update)
		if err != nil {
			return domain.Internal(err, "reconcile.subscription_change", "failed to update subscription by customer")
		}
	}
	if rows == 0 {
		r.logger.Warn("subscription event matched no profile, dropping",
			slog.String("subscription_id", event.SubscriptionID),
			slog.String("customer_id", event.CustomerID),
			slog.String("status", string(status)))
		return nil
	}

	r.logger.Info("subscription reconciled",
		slog.String("subscription_id", event.SubscriptionID),
		slog.String("status", string(status)),
		slog.Bool("deleted", event.Deleted))
	if telemetry.Business != nil {
		telemetry.Business.SubscriptionStatusUpdates.WithLabelValues(string(status)).Inc()
	}
	return nil
}

// ApplyInvoicePaid corroborates the subscription state after a successful
// payment. The invoice itself does not say what the subscription status is
// now (a paid invoice can belong to a trialing subscription), so the current
// subscription object is fetched from the processor and stored verbatim. If
// the fetch fails the event is acknowledged and the stored state left alone;
// the next lifecycle event carries the same truth.
func (r *Reconciler) ApplyInvoicePaid(ctx context.Context, event domain.InvoiceEvent) error {
	if event.SubscriptionID == "" {
		r.logger.Info("invoice paid without subscription, ignoring",
			slog.String("invoice_id", event.InvoiceID))
		return nil
	}

	sub, err := r.provider.GetSubscription(ctx, event.SubscriptionID)
	if err != nil {
		r.logger.Warn("failed to fetch subscription for paid invoice, leaving state untouched",
			slog.String("invoice_id", event.InvoiceID),
			slog.String("subscription_id", event.SubscriptionID),
			slog.String("error", err.Error()))
		return nil
	}

	update := domain.SubscriptionUpdate{
		SubscriptionID: sub.ID,
		CustomerID:     sub.CustomerID,
		Status:         billing.NormalizeSubscriptionStatus(sub.Status),
	}
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		update.PeriodEnd = &end
	}

	rows, err := r.profiles.UpdateSubscriptionBySubscriptionID(ctx, update)
	if err != nil {
		return domain.Internal(err, "reconcile.invoice_paid", "failed to update subscription")
	}
	if rows == 0 && update.CustomerID != "" {
		rows, err = r.profiles.UpdateSubscriptionByCustomerID(ctx, update)
		if err != nil {
			return domain.Internal(err, "reconcile.invoice_paid", "failed to update subscription by customer")
		}
	}
	if rows == 0 {
		r.logger.Warn("paid invoice matched no profile, dropping",
			slog.String("invoice_id", event.InvoiceID),
			slog.String("subscription_id", event.SubscriptionID))
		return nil
	}

	r.logger.Info("invoice paid reconciled",
		slog.String("subscription_id", sub.ID),
		slog.String("status", string(update.Status)))
	return nil
}

// ApplyInvoicePaymentFailed marks the subscription past due. This is the
// processor's own status for a subscription with a failed renewal, so no
// upstream fetch is needed.
func (r *Reconciler) ApplyInvoicePaymentFailed(ctx context.Context, event domain.InvoiceEvent) error {
	var (
		rows int64
		err  error
	)
	if event.SubscriptionID != "" {
		rows, err = r.profiles.SetStatusBySubscriptionID(ctx, event.SubscriptionID, domain.SubscriptionPastDue)
		if err != nil {
			return domain.Internal(err, "reconcile.invoice_failed", "failed to set status")
		}
	}
	if rows == 0 && event.CustomerID != "" {
		rows, err = r.profiles.SetStatusByCustomerID(ctx, event.CustomerID, domain.SubscriptionPastDue)
		if err != nil {
			return domain.Internal(err, "reconcile.invoice_failed", "failed to set status by customer")
		}
	}
	if rows == 0 {
		r.logger.Warn("failed invoice matched no profile, dropping",
			slog.String("invoice_id", event.InvoiceID),
			slog.String("subscription_id", event.SubscriptionID),
			slog.String("customer_id", event.CustomerID))
		return nil
	}

	r.logger.Info("invoice payment failure reconciled",
		slog.String("subscription_id", event.SubscriptionID))
	return nil
}
