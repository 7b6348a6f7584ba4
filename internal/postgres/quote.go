package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vidar/internal/domain"
)

const quoteColumns = `id, listing_id, name, email, phone, message, status, created_at`

func scanQuoteRequest(row pgx.Row) (*domain.QuoteRequest, error) {
	var q domain.QuoteRequest
	err := row.Scan(
		&q.ID,
		&q.ListingID,
		&q.Name,
		&q.Email,
		&q.Phone,
		&q.Message,
		&q.Status,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuoteRequest stores an anonymous inquiry against a listing.
func (s *Store) CreateQuoteRequest(ctx context.Context, listingID uuid.UUID, params domain.CreateQuoteRequestParams) (*domain.QuoteRequest, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO quote_requests (id, listing_id, name, email, phone, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+quoteColumns,
		uuid.New(), listingID, params.Name, params.Email, params.Phone,
		params.Message, string(domain.QuoteNew),
	)

	q, err := scanQuoteRequest(row)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}
	return q, nil
}

// ListQuoteRequestsForProfile returns the inbox of the listing owner.
func (s *Store) ListQuoteRequestsForProfile(ctx context.Context, profileID uuid.UUID) ([]domain.QuoteRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.listing_id, q.name, q.email, q.phone, q.message, q.status, q.created_at
		FROM quote_requests q
		JOIN listings l ON l.id = q.listing_id
		WHERE l.profile_id = $1
		ORDER BY q.created_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list quote requests: %w", err)
	}
	defer rows.Close()

	var quotes []domain.QuoteRequest
	for rows.Next() {
		q, err := scanQuoteRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("list quote requests: %w", err)
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

// GetQuoteRequest loads a request plus the owning profile id.
func (s *Store) GetQuoteRequest(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, uuid.UUID, error) {
	var q domain.QuoteRequest
	var ownerID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT q.id, q.listing_id, q.name, q.email, q.phone, q.message, q.status, q.created_at,
		       l.profile_id
		FROM quote_requests q
		JOIN listings l ON l.id = q.listing_id
		WHERE q.id = $1`,
		id,
	).Scan(&q.ID, &q.ListingID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.Status, &q.CreatedAt, &ownerID)
	if err != nil {
		return nil, uuid.Nil, notFound(err)
	}
	return &q, ownerID, nil
}

// SetQuoteRequestStatus updates the status field; the request body stays
// immutable.
func (s *Store) SetQuoteRequestStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quote_requests SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("set quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
