package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CheckoutService creates hosted checkout sessions for the subscription
// product. It is the only component that writes the customer id.
type CheckoutService interface {
	// CreateCheckoutSession ensures a processor customer exists for the
	// user, persists its id, and returns the hosted checkout URL.
	CreateCheckoutSession(ctx context.Context, userID uuid.UUID) (string, error)
}

// CheckoutCompletedEvent is the decoded payload of a completed checkout
// session. UserID comes from the metadata embedded when the session was
// created.
type CheckoutCompletedEvent struct {
	SessionID      string
	UserID         uuid.UUID
	CustomerID     string
	SubscriptionID string
}

// SubscriptionChangeEvent is the decoded payload of a subscription lifecycle
// event. Status carries the processor's raw status vocabulary; the reconciler
// normalizes it before storing. Deleted marks customer.subscription.deleted,
// which forces the stored status to canceled regardless of Status.
type SubscriptionChangeEvent struct {
	SubscriptionID string
	CustomerID     string
	Status         string
	PeriodEnd      *time.Time
	Deleted        bool
}

// InvoiceEvent is the decoded payload of an invoice outcome event.
type InvoiceEvent struct {
	InvoiceID      string
	SubscriptionID string
	CustomerID     string
}

// SubscriptionReconciler applies idempotent updates to stored subscription
// state from decoded webhook events. Implementations must converge under
// replays and out-of-order delivery: every event carries absolute state and
// updates are last-write-wins on only the fields the event concerns.
//
// A nil error with no matching profile is deliberate: the processor does not
// retry on partial application, so unresolvable events are logged and
// acknowledged rather than escalated.
type SubscriptionReconciler interface {
	ApplyCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error
	ApplySubscriptionChange(ctx context.Context, event SubscriptionChangeEvent) error
	ApplyInvoicePaid(ctx context.Context, event InvoiceEvent) error
	ApplyInvoicePaymentFailed(ctx context.Context, event InvoiceEvent) error
}

// WebhookEventStore is the insert-or-skip ledger of processed webhook
// deliveries, keyed by the processor's event id.
type WebhookEventStore interface {
	// MarkEventSeen records the event id and reports whether this delivery
	// is the first one seen. Replayed ids return false.
	MarkEventSeen(ctx context.Context, provider, eventID, eventType string) (bool, error)
}
