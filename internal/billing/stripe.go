package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeProvider implements Provider using the Stripe Go SDK. The client is
// constructed explicitly and carried on the struct; nothing touches the SDK's
// package-level key, so two providers with different keys can coexist and
// tests never leak state.
type StripeProvider struct {
	config StripeConfig
	client *client.API
}

// Compile-time check that StripeProvider implements Provider.
var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider creates a Stripe billing provider from validated config.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if config.TimeoutSeconds <= 0 {
		timeout = 30 * time.Second
	}

	sc := &client.API{}
	sc.Init(config.APIKey, stripe.NewBackends(&http.Client{Timeout: timeout}))

	return &StripeProvider{
		config: config,
		client: sc,
	}, nil
}

// CreateCustomer creates a Stripe customer with the user id in metadata.
func (p *StripeProvider) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	if params.Email == "" {
		return nil, errors.New("stripe: customer email is required")
	}

	cp := &stripe.CustomerParams{
		Email: stripe.String(params.Email),
	}
	cp.Context = ctx
	for k, v := range params.Metadata {
		cp.AddMetadata(k, v)
	}

	cust, err := p.client.Customers.New(cp)
	if err != nil {
		return nil, wrapStripeError(err, "create customer")
	}

	return &Customer{
		ID:        cust.ID,
		Email:     cust.Email,
		CreatedAt: time.Unix(cust.Created, 0).UTC(),
	}, nil
}

// CreateCheckoutSession creates a subscription-mode hosted checkout session
// for exactly one unit of the configured price.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*CheckoutSession, error) {
	if params.PriceID == "" {
		return nil, errors.New("stripe: price id is required")
	}
	if params.CustomerID == "" {
		return nil, errors.New("stripe: customer id is required")
	}

	sp := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(params.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	sp.Context = ctx
	if params.AllowPromotionCodes {
		sp.AllowPromotionCodes = stripe.Bool(true)
	}

	// Metadata goes on both the session and the subscription it creates so
	// checkout-completion and lifecycle events can each resolve the profile.
	for k, v := range params.Metadata {
		sp.AddMetadata(k, v)
	}
	if len(params.Metadata) > 0 {
		sp.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: params.Metadata,
		}
	}

	sess, err := p.client.CheckoutSessions.New(sp)
	if err != nil {
		return nil, wrapStripeError(err, "create checkout session")
	}

	return &CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// GetSubscription retrieves the current subscription object from Stripe.
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if subscriptionID == "" {
		return nil, ErrSubscriptionNotFound
	}

	sp := &stripe.SubscriptionParams{}
	sp.Context = ctx

	sub, err := p.client.Subscriptions.Get(subscriptionID, sp)
	if err != nil {
		return nil, wrapStripeError(err, "get subscription")
	}

	var customerID string
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	s := &Subscription{
		ID:         sub.ID,
		CustomerID: customerID,
		Status:     string(sub.Status),
	}
	if end := SubscriptionPeriodEnd(sub); end != nil {
		s.CurrentPeriodEnd = *end
	}
	return s, nil
}

// VerifyWebhookSignature verifies a Stripe webhook signature against the
// signing secret. The payload must be the raw request body.
func (p *StripeProvider) VerifyWebhookSignature(payload []byte, signature string, secret string) error {
	if _, err := webhook.ConstructEvent(payload, signature, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}
	return nil
}

// SubscriptionPeriodEnd extracts the billing-period end from a Stripe
// subscription as an absolute UTC timestamp. The API carries period bounds on
// the subscription items; all items of a subscription share one period, so
// the latest item value is authoritative. Returns nil when absent.
func SubscriptionPeriodEnd(sub *stripe.Subscription) *time.Time {
	if sub == nil || sub.Items == nil {
		return nil
	}
	var end int64
	for _, item := range sub.Items.Data {
		if item != nil && item.CurrentPeriodEnd > end {
			end = item.CurrentPeriodEnd
		}
	}
	if end == 0 {
		return nil
	}
	t := time.Unix(end, 0).UTC()
	return &t
}

// wrapStripeError converts an SDK error into a StripeError with upstream
// context preserved.
func wrapStripeError(err error, op string) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return &StripeError{
			Message:       fmt.Sprintf("%s: %s", op, sErr.Msg),
			Code:          string(sErr.Code),
			RequestID:     sErr.RequestID,
			OriginalError: err,
		}
	}
	return fmt.Errorf("stripe: %s: %w", op, err)
}
