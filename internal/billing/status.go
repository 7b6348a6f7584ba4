package billing

import "github.com/dukerupert/vidar/internal/domain"

// NormalizeSubscriptionStatus maps the processor's subscription status
// vocabulary onto the stored enumeration. Every webhook branch routes through
// this one function so the stored value is always the processor's own status,
// never an application-invented one.
//
// The mapping is 1:1 except incomplete_expired, which collapses into
// incomplete. Unrecognized values are treated as incomplete rather than
// stored raw.
func NormalizeSubscriptionStatus(raw string) domain.SubscriptionStatus {
	switch raw {
	case "active":
		return domain.SubscriptionActive
	case "trialing":
		return domain.SubscriptionTrialing
	case "canceled":
		return domain.SubscriptionCanceled
	case "incomplete", "incomplete_expired":
		return domain.SubscriptionIncomplete
	case "past_due":
		return domain.SubscriptionPastDue
	case "unpaid":
		return domain.SubscriptionUnpaid
	case "paused":
		return domain.SubscriptionPaused
	default:
		return domain.SubscriptionIncomplete
	}
}
