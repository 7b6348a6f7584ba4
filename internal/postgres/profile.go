package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vidar/internal/domain"
)

const profileColumns = `id, email, stripe_customer_id, stripe_subscription_id,
	subscription_status, current_period_end, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var status *string
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.StripeCustomerID,
		&p.StripeSubscriptionID,
		&status,
		&p.CurrentPeriodEnd,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if status != nil {
		s := domain.SubscriptionStatus(*status)
		p.SubscriptionStatus = &s
	}
	return &p, nil
}

// CreateProfile inserts the profile row provisioned at signup. Redelivered
// provisioning hooks are safe: an existing row is returned unchanged.
func (s *Store) CreateProfile(ctx context.Context, id uuid.UUID, email string) (*domain.Profile, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`,
		id, email,
	)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.GetProfile(ctx, id)
}

// GetProfile loads a profile by id.
func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// SetStripeCustomer persists the processor customer reference.
func (s *Store) SetStripeCustomer(ctx context.Context, id uuid.UUID, customerID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET stripe_customer_id = $2, updated_at = now()
		WHERE id = $1`,
		id, customerID,
	)
	if err != nil {
		return fmt.Errorf("set stripe customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkCheckout attaches the checkout session's customer and subscription ids
// to the profile. Status is written only when the caller supplies one; the
// COALESCE keeps an absent status from clobbering a lifecycle event that
// already arrived.
func (s *Store) LinkCheckout(ctx context.Context, params domain.LinkCheckoutParams) (int64, error) {
	var status *string
	if params.Status != nil {
		v := string(*params.Status)
		status = &v
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET stripe_customer_id     = COALESCE(NULLIF($2, ''), stripe_customer_id),
		    stripe_subscription_id = COALESCE(NULLIF($3, ''), stripe_subscription_id),
		    subscription_status    = COALESCE($4, subscription_status),
		    updated_at             = now()
		WHERE id = $1`,
		params.ProfileID, params.CustomerID, params.SubscriptionID, status,
	)
	if err != nil {
		return 0, fmt.Errorf("link checkout: %w", err)
	}
	return tag.RowsAffected(), nil
}

// applySubscriptionUpdate writes the fields a lifecycle event concerns. The
// period end is left untouched when the event did not carry one.
func (s *Store) applySubscriptionUpdate(ctx context.Context, predicate string, match any, update domain.SubscriptionUpdate) (int64, error) {
	var periodEnd *time.Time
	if update.PeriodEnd != nil {
		t := update.PeriodEnd.UTC()
		periodEnd = &t
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET stripe_customer_id     = COALESCE(NULLIF($2, ''), stripe_customer_id),
		    stripe_subscription_id = $3,
		    subscription_status    = $4,
		    current_period_end     = COALESCE($5, current_period_end),
		    updated_at             = now()
		WHERE `+predicate,
		match, update.CustomerID, update.SubscriptionID, string(update.Status), periodEnd,
	)
	if err != nil {
		return 0, fmt.Errorf("apply subscription update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateSubscriptionBySubscriptionID applies a lifecycle update to the row
// holding the subscription id (the precise match).
func (s *Store) UpdateSubscriptionBySubscriptionID(ctx context.Context, update domain.SubscriptionUpdate) (int64, error) {
	return s.applySubscriptionUpdate(ctx, `stripe_subscription_id = $1`, update.SubscriptionID, update)
}

// UpdateSubscriptionByCustomerID is the fallback for the first event of a
// not-yet-linked subscription.
func (s *Store) UpdateSubscriptionByCustomerID(ctx context.Context, update domain.SubscriptionUpdate) (int64, error) {
	return s.applySubscriptionUpdate(ctx, `stripe_customer_id = $1`, update.CustomerID, update)
}

// SetStatusBySubscriptionID updates only the status field.
func (s *Store) SetStatusBySubscriptionID(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET subscription_status = $2, updated_at = now()
		WHERE stripe_subscription_id = $1`,
		subscriptionID, string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("set status by subscription: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetStatusByCustomerID updates only the status field by customer match.
func (s *Store) SetStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET subscription_status = $2, updated_at = now()
		WHERE stripe_customer_id = $1`,
		customerID, string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("set status by customer: %w", err)
	}
	return tag.RowsAffected(), nil
}
