package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/billing"
	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// CheckoutConfig carries the settings the checkout initiator needs. Every
// field is required; a zero value is a construction error, never a silent
// fallback.
type CheckoutConfig struct {
	// PriceID is the subscription price sold by checkout (quantity one).
	PriceID string

	// BaseURL is the redirect target origin for success/cancel URLs.
	BaseURL string
}

// Validate rejects incomplete configuration.
func (c CheckoutConfig) Validate() error {
	if c.PriceID == "" {
		return fmt.Errorf("checkout: price id is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("checkout: base URL is required")
	}
	return nil
}

// CheckoutService creates hosted checkout sessions. It is the only writer of
// the profile's customer id, and it always persists that id before creating
// the session so webhook events can be matched by customer later.
type CheckoutService struct {
	profiles domain.ProfileStore
	provider billing.Provider
	config   CheckoutConfig
	logger   *slog.Logger
}

var _ domain.CheckoutService = (*CheckoutService)(nil)

func NewCheckoutService(profiles domain.ProfileStore, provider billing.Provider, config CheckoutConfig, logger *slog.Logger) (*CheckoutService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &CheckoutService{
		profiles: profiles,
		provider: provider,
		config:   config,
		logger:   logger,
	}, nil
}

// CreateCheckoutSession ensures the user's profile carries a processor
// customer id, then creates a subscription-mode checkout session carrying the
// user id in metadata, and returns the hosted URL to redirect to.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID) (string, error) {
	const op = "checkout.create"

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", domain.Internal(err, op, "failed to load profile")
	}
	if profile.Email == "" {
		return "", domain.Errorf(domain.EINTERNAL, op, "profile %s has no email", userID)
	}

	customerID, err := s.ensureCustomer(ctx, profile)
	if err != nil {
		return "", err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CreateCheckoutSessionParams{
		CustomerID:          customerID,
		PriceID:             s.config.PriceID,
		SuccessURL:          s.config.BaseURL + "/dashboard?checkout=success",
		CancelURL:           s.config.BaseURL + "/pricing?checkout=canceled",
		AllowPromotionCodes: true,
		Metadata: map[string]string{
			"user_id": userID.String(),
		},
	})
	if err != nil {
		return "", domain.WrapError(err, domain.EPAYMENT, op, "payment processor rejected the checkout session")
	}
	if session.URL == "" {
		return "", domain.Errorf(domain.EINTERNAL, op, "checkout session %s has no redirect URL", session.ID)
	}

	s.logger.Info("checkout session created",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID))
	if telemetry.Business != nil {
		telemetry.Business.CheckoutSessionsCreated.Inc()
	}

	return session.URL, nil
}

// ensureCustomer returns the profile's customer id, creating and persisting
// one first if the profile has none. Persistence failure aborts the checkout:
// a session created against an unrecorded customer would produce webhook
// events the reconciler cannot resolve.
func (s *CheckoutService) ensureCustomer(ctx context.Context, profile *domain.Profile) (string, error) {
	const op = "checkout.customer"

	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}

	customer, err := s.provider.CreateCustomer(ctx, billing.CreateCustomerParams{
		Email: profile.Email,
		Metadata: map[string]string{
			"user_id": profile.ID.String(),
		},
	})
	if err != nil {
		return "", domain.WrapError(err, domain.EPAYMENT, op, "payment processor rejected the customer")
	}

	if err := s.profiles.SetStripeCustomer(ctx, profile.ID, customer.ID); err != nil {
		return "", domain.Internal(err, op, "failed to persist customer id")
	}

	s.logger.Info("customer created",
		slog.String("user_id", profile.ID.String()),
		slog.String("customer_id", customer.ID))

	return customer.ID, nil
}
