package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vidar/internal/domain"
)

const listingColumns = `id, profile_id, business_name, slug, category, city,
	region, phone, description, published, created_at, updated_at`

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID,
		&l.ProfileID,
		&l.BusinessName,
		&l.Slug,
		&l.Category,
		&l.City,
		&l.Region,
		&l.Phone,
		&l.Description,
		&l.Published,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpsertListing creates or replaces the profile's single listing. Publication
// state is preserved across edits.
func (s *Store) UpsertListing(ctx context.Context, params domain.UpsertListingParams, slug string) (*domain.Listing, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO listings (id, profile_id, business_name, slug, category, city, region, phone, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (profile_id) DO UPDATE
		SET business_name = EXCLUDED.business_name,
		    slug          = EXCLUDED.slug,
		    category      = EXCLUDED.category,
		    city          = EXCLUDED.city,
		    region        = EXCLUDED.region,
		    phone         = EXCLUDED.phone,
		    description   = EXCLUDED.description,
		    updated_at    = now()
		RETURNING `+listingColumns,
		uuid.New(), params.ProfileID, params.BusinessName, slug,
		string(params.Category), params.City, params.Region, params.Phone, params.Description,
	)

	listing, err := scanListing(row)
	if err != nil {
		if isUniqueViolation(err, "listings_slug_key") {
			return nil, domain.Conflict("listing.upsert", "that business name is already taken")
		}
		return nil, fmt.Errorf("upsert listing: %w", err)
	}
	return listing, nil
}

// GetListingByProfile loads the profile's listing regardless of publication.
func (s *Store) GetListingByProfile(ctx context.Context, profileID uuid.UUID) (*domain.Listing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE profile_id = $1`, profileID)

	listing, err := scanListing(row)
	if err != nil {
		return nil, notFound(err)
	}
	return listing, nil
}

// GetPublishedBySlug loads a published listing for public display.
func (s *Store) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE slug = $1 AND published`, slug)

	listing, err := scanListing(row)
	if err != nil {
		return nil, notFound(err)
	}
	return listing, nil
}

// ListPublished returns published listings, optionally filtered.
func (s *Store) ListPublished(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE published`
	args := []any{}

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(" AND city = $%d", len(args))
	}
	query += " ORDER BY business_name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("list published: %w", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// SetPublished flips the publication flag.
func (s *Store) SetPublished(ctx context.Context, listingID uuid.UUID, published bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE listings SET published = $2, updated_at = now() WHERE id = $1`,
		listingID, published,
	)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
