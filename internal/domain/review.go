package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review is an anonymous visitor's review of a published listing. Reviews
// start unapproved and become publicly visible only after the listing owner
// approves them.
type Review struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	Reviewer  string
	Rating    int
	Body      string
	Approved  bool
	CreatedAt time.Time
}

// CreateReviewParams is the anonymous intake payload.
type CreateReviewParams struct {
	ListingSlug string
	Reviewer    string
	Rating      int
	Body        string
}

// ReviewStore persists reviews.
type ReviewStore interface {
	CreateReview(ctx context.Context, listingID uuid.UUID, params CreateReviewParams) (*Review, error)
	ListApprovedForListing(ctx context.Context, listingID uuid.UUID) ([]Review, error)
	ListReviewsForProfile(ctx context.Context, profileID uuid.UUID) ([]Review, error)

	// GetReview returns the review and the owning profile id.
	GetReview(ctx context.Context, id uuid.UUID) (*Review, uuid.UUID, error)
	ApproveReview(ctx context.Context, id uuid.UUID) error
}

// ReviewService is the application-facing review API.
type ReviewService interface {
	SubmitReview(ctx context.Context, params CreateReviewParams) (*Review, error)

	// ListApprovedReviews returns the publicly visible reviews of a
	// published listing.
	ListApprovedReviews(ctx context.Context, listingSlug string) ([]Review, error)

	ListOwnReviews(ctx context.Context, profileID uuid.UUID) ([]Review, error)
	ApproveReview(ctx context.Context, profileID, id uuid.UUID) (*Review, error)
}
