package billing

import (
	"context"
	"time"
)

// Provider defines the payment-processor capability the application consumes:
// customer creation, hosted checkout session creation, subscription retrieval,
// and webhook signature verification. Implementations wrap Stripe; tests use
// the in-package mock.
type Provider interface {
	// CreateCustomer creates a customer record in the processor. The user id
	// goes into metadata so lifecycle events can be traced back.
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)

	// CreateCheckoutSession creates a subscription-mode hosted checkout
	// session and returns it with the redirect URL.
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error)

	// GetSubscription retrieves the current subscription object. Used by the
	// reconciler when an invoice event needs the authoritative status.
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// VerifyWebhookSignature verifies that a webhook payload is authentic.
	// Must be called before the payload is parsed or acted on.
	VerifyWebhookSignature(payload []byte, signature string, secret string) error
}

// CreateCustomerParams contains parameters for creating a customer.
type CreateCustomerParams struct {
	Email    string
	Metadata map[string]string
}

// Customer represents a processor customer.
type Customer struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// CreateCheckoutSessionParams contains parameters for a subscription checkout.
type CreateCheckoutSessionParams struct {
	// CustomerID is the existing processor customer to bill.
	CustomerID string

	// PriceID is the configured subscription price. Exactly one unit is sold.
	PriceID string

	SuccessURL string
	CancelURL  string

	// Metadata is attached to both the session and the resulting
	// subscription so both checkout-completion and lifecycle events can
	// resolve the owning profile.
	Metadata map[string]string

	// AllowPromotionCodes lets the hosted page accept promo codes.
	AllowPromotionCodes bool
}

// CheckoutSession represents a hosted checkout session.
type CheckoutSession struct {
	ID  string
	URL string
}

// Subscription represents a processor subscription. Status carries the
// processor's raw vocabulary; callers normalize it with
// NormalizeSubscriptionStatus before storing.
type Subscription struct {
	ID               string
	CustomerID       string
	Status           string
	CurrentPeriodEnd time.Time
}
