package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus mirrors the payment processor's subscription status
// vocabulary. The stored value is always the processor's own status as of the
// most recently processed event; the application never invents states of its
// own (no "pending", no "inactive").
type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
	SubscriptionPaused     SubscriptionStatus = "paused"
)

// SubscriptionStatuses lists every recognized status value.
var SubscriptionStatuses = []SubscriptionStatus{
	SubscriptionActive,
	SubscriptionTrialing,
	SubscriptionCanceled,
	SubscriptionIncomplete,
	SubscriptionPastDue,
	SubscriptionUnpaid,
	SubscriptionPaused,
}

// Valid reports whether s is a member of the recognized enumeration.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionCanceled,
		SubscriptionIncomplete, SubscriptionPastDue, SubscriptionUnpaid,
		SubscriptionPaused:
		return true
	}
	return false
}

// Paid reports whether the status permits publishing a listing.
func (s SubscriptionStatus) Paid() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// Profile is the per-user account row. It is created when the identity
// service provisions a signup and never deleted by this application. Billing
// fields are mutated only by the checkout initiator (customer id) and the
// webhook reconciler (subscription id, status, period end).
type Profile struct {
	ID                   uuid.UUID
	Email                string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	SubscriptionStatus   *SubscriptionStatus
	CurrentPeriodEnd     *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CanPublish reports whether the profile's subscription permits publishing.
func (p *Profile) CanPublish() bool {
	return p.SubscriptionStatus != nil && p.SubscriptionStatus.Paid()
}

// ErrNotFound is returned by stores when no row matches the predicate.
var ErrNotFound = errors.New("not found")

// SubscriptionUpdate carries the fields a subscription-lifecycle event writes.
// Fields the event does not concern stay untouched in the store, which is what
// makes replays converge.
type SubscriptionUpdate struct {
	SubscriptionID string
	CustomerID     string
	Status         SubscriptionStatus
	PeriodEnd      *time.Time
}

// LinkCheckoutParams attaches the processor references created by a completed
// checkout session to a profile. Status is only set when the caller's policy
// says checkout completion is authoritative; nil leaves it untouched.
type LinkCheckoutParams struct {
	ProfileID      uuid.UUID
	CustomerID     string
	SubscriptionID string
	Status         *SubscriptionStatus
}

// ProfileStore is the data-store capability the billing components consume:
// single-row reads and last-write-wins updates by exact-match predicate on
// profile id, subscription id, or customer id.
type ProfileStore interface {
	CreateProfile(ctx context.Context, id uuid.UUID, email string) (*Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// SetStripeCustomer persists the processor customer reference for a
	// profile. Must succeed before a checkout session is created, or the
	// reconciler cannot match future events by customer id.
	SetStripeCustomer(ctx context.Context, id uuid.UUID, customerID string) error

	// LinkCheckout resolves the profile by id and attaches customer and
	// subscription ids. Returns the number of rows matched.
	LinkCheckout(ctx context.Context, params LinkCheckoutParams) (int64, error)

	// UpdateSubscriptionBySubscriptionID applies a lifecycle update to the
	// profile holding the given subscription id. Returns rows matched.
	UpdateSubscriptionBySubscriptionID(ctx context.Context, update SubscriptionUpdate) (int64, error)

	// UpdateSubscriptionByCustomerID is the fallback resolution for the
	// first-ever event of a not-yet-linked subscription.
	UpdateSubscriptionByCustomerID(ctx context.Context, update SubscriptionUpdate) (int64, error)

	// SetStatusBySubscriptionID updates only the status field (invoice
	// events concern nothing else). Returns rows matched.
	SetStatusBySubscriptionID(ctx context.Context, subscriptionID string, status SubscriptionStatus) (int64, error)
	SetStatusByCustomerID(ctx context.Context, customerID string, status SubscriptionStatus) (int64, error)
}

// ProfileService provisions profile rows for the identity service's signup
// hook and serves the account's own view of its profile.
type ProfileService interface {
	ProvisionProfile(ctx context.Context, userID uuid.UUID, email string) (*Profile, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
