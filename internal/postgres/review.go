package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vidar/internal/domain"
)

const reviewColumns = `id, listing_id, reviewer, rating, body, approved, created_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var r domain.Review
	err := row.Scan(
		&r.ID,
		&r.ListingID,
		&r.Reviewer,
		&r.Rating,
		&r.Body,
		&r.Approved,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview stores an anonymous review. Reviews always start unapproved.
func (s *Store) CreateReview(ctx context.Context, listingID uuid.UUID, params domain.CreateReviewParams) (*domain.Review, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, listing_id, reviewer, rating, body, approved)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING `+reviewColumns,
		uuid.New(), listingID, params.Reviewer, params.Rating, params.Body,
	)

	r, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return r, nil
}

// ListApprovedForListing returns the publicly visible reviews of a listing.
func (s *Store) ListApprovedForListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE listing_id = $1 AND approved
		 ORDER BY created_at DESC`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListReviewsForProfile returns all reviews (pending and approved) of the
// owner's listing.
func (s *Store) ListReviewsForProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.listing_id, r.reviewer, r.rating, r.body, r.approved, r.created_at
		FROM reviews r
		JOIN listings l ON l.id = r.listing_id
		WHERE l.profile_id = $1
		ORDER BY r.created_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews for profile: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// GetReview loads a review plus the owning profile id.
func (s *Store) GetReview(ctx context.Context, id uuid.UUID) (*domain.Review, uuid.UUID, error) {
	var r domain.Review
	var ownerID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT r.id, r.listing_id, r.reviewer, r.rating, r.body, r.approved, r.created_at,
		       l.profile_id
		FROM reviews r
		JOIN listings l ON l.id = r.listing_id
		WHERE r.id = $1`,
		id,
	).Scan(&r.ID, &r.ListingID, &r.Reviewer, &r.Rating, &r.Body, &r.Approved, &r.CreatedAt, &ownerID)
	if err != nil {
		return nil, uuid.Nil, notFound(err)
	}
	return &r, ownerID, nil
}

// ApproveReview marks a review publicly visible. Approving twice is a no-op.
func (s *Store) ApproveReview(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reviews SET approved = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("approve review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
