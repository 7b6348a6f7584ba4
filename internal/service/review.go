package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// ReviewSvc implements the review API. Intake is anonymous against published
// listings; reviews stay hidden until the listing owner approves them.
type ReviewSvc struct {
	reviews  domain.ReviewStore
	listings domain.ListingStore
	logger   *slog.Logger
}

var _ domain.ReviewService = (*ReviewSvc)(nil)

func NewReviewService(reviews domain.ReviewStore, listings domain.ListingStore, logger *slog.Logger) *ReviewSvc {
	return &ReviewSvc{reviews: reviews, listings: listings, logger: logger}
}

func (s *ReviewSvc) SubmitReview(ctx context.Context, params domain.CreateReviewParams) (*domain.Review, error) {
	const op = "review.submit"

	if params.Reviewer == "" || params.Body == "" {
		return nil, domain.Invalid(op, "reviewer name and body are required")
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, domain.Errorf(domain.EINVALID, op, "rating must be between 1 and 5, got %d", params.Rating)
	}

	listing, err := s.listings.GetPublishedBySlug(ctx, params.ListingSlug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "listing", params.ListingSlug)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load listing")
	}

	review, err := s.reviews.CreateReview(ctx, listing.ID, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save review")
	}

	s.logger.Info("review submitted",
		slog.String("listing", listing.Slug),
		slog.String("review_id", review.ID.String()))
	if telemetry.Business != nil {
		telemetry.Business.ReviewsSubmitted.Inc()
	}
	return review, nil
}

func (s *ReviewSvc) ListApprovedReviews(ctx context.Context, listingSlug string) ([]domain.Review, error) {
	const op = "review.list_approved"

	listing, err := s.listings.GetPublishedBySlug(ctx, listingSlug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "listing", listingSlug)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load listing")
	}

	reviews, err := s.reviews.ListApprovedForListing(ctx, listing.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list reviews")
	}
	return reviews, nil
}

func (s *ReviewSvc) ListOwnReviews(ctx context.Context, profileID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.reviews.ListReviewsForProfile(ctx, profileID)
	if err != nil {
		return nil, domain.Internal(err, "review.list", "failed to list reviews")
	}
	return reviews, nil
}

// ApproveReview makes a review publicly visible. Only the owner of the
// reviewed listing may approve; approving twice is a no-op.
func (s *ReviewSvc) ApproveReview(ctx context.Context, profileID, id uuid.UUID) (*domain.Review, error) {
	const op = "review.approve"

	review, ownerID, err := s.reviews.GetReview(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "review", id.String())
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load review")
	}
	if ownerID != profileID {
		return nil, domain.Forbidden(op, "review belongs to another listing")
	}

	if review.Approved {
		return review, nil
	}
	if err := s.reviews.ApproveReview(ctx, id); err != nil {
		return nil, domain.Internal(err, op, "failed to approve review")
	}
	review.Approved = true
	if telemetry.Business != nil {
		telemetry.Business.ReviewsApproved.Inc()
	}
	return review, nil
}
