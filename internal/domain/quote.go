package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QuoteStatus tracks the owner's handling of a quote request. The request
// itself is immutable once created; only the status moves.
type QuoteStatus string

const (
	QuoteNew       QuoteStatus = "new"
	QuoteContacted QuoteStatus = "contacted"
	QuoteClosed    QuoteStatus = "closed"
)

// Valid reports whether s is a recognized quote status.
func (s QuoteStatus) Valid() bool {
	return s == QuoteNew || s == QuoteContacted || s == QuoteClosed
}

// QuoteRequest is an anonymous visitor's inquiry against a published listing.
type QuoteRequest struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	Name      string
	Email     string
	Phone     string
	Message   string
	Status    QuoteStatus
	CreatedAt time.Time
}

// CreateQuoteRequestParams is the anonymous intake payload.
type CreateQuoteRequestParams struct {
	ListingSlug string
	Name        string
	Email       string
	Phone       string
	Message     string
}

// QuoteStore persists quote requests.
type QuoteStore interface {
	CreateQuoteRequest(ctx context.Context, listingID uuid.UUID, params CreateQuoteRequestParams) (*QuoteRequest, error)
	ListQuoteRequestsForProfile(ctx context.Context, profileID uuid.UUID) ([]QuoteRequest, error)

	// GetQuoteRequest returns the request and the profile id of the listing
	// owner, so the service can distinguish forbidden from not-found.
	GetQuoteRequest(ctx context.Context, id uuid.UUID) (*QuoteRequest, uuid.UUID, error)
	SetQuoteRequestStatus(ctx context.Context, id uuid.UUID, status QuoteStatus) error
}

// QuoteService is the application-facing quote request API.
type QuoteService interface {
	SubmitQuoteRequest(ctx context.Context, params CreateQuoteRequestParams) (*QuoteRequest, error)
	ListOwnQuoteRequests(ctx context.Context, profileID uuid.UUID) ([]QuoteRequest, error)
	UpdateQuoteRequestStatus(ctx context.Context, profileID, id uuid.UUID, status QuoteStatus) (*QuoteRequest, error)
}
