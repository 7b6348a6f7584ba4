package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListingCategory is the directory vertical a listing belongs to.
type ListingCategory string

const (
	CategoryContractor ListingCategory = "contractor"
	CategoryRealtor    ListingCategory = "realtor"
)

// Valid reports whether c is a recognized category.
func (c ListingCategory) Valid() bool {
	return c == CategoryContractor || c == CategoryRealtor
}

// Listing is a business profile in the directory. Each profile owns at most
// one listing; publication is gated on the owner's subscription status.
type Listing struct {
	ID           uuid.UUID
	ProfileID    uuid.UUID
	BusinessName string
	Slug         string
	Category     ListingCategory
	City         string
	Region       string
	Phone        string
	Description  string
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingFilter narrows public directory queries.
type ListingFilter struct {
	Category ListingCategory
	City     string
}

// UpsertListingParams is the owner-editable subset of a listing.
type UpsertListingParams struct {
	ProfileID    uuid.UUID
	BusinessName string
	Category     ListingCategory
	City         string
	Region       string
	Phone        string
	Description  string
}

// ListingStore persists listings.
type ListingStore interface {
	UpsertListing(ctx context.Context, params UpsertListingParams, slug string) (*Listing, error)
	GetListingByProfile(ctx context.Context, profileID uuid.UUID) (*Listing, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Listing, error)
	ListPublished(ctx context.Context, filter ListingFilter) ([]Listing, error)
	SetPublished(ctx context.Context, listingID uuid.UUID, published bool) error
}

// ListingService is the application-facing listing API.
type ListingService interface {
	UpsertListing(ctx context.Context, params UpsertListingParams) (*Listing, error)
	GetOwnListing(ctx context.Context, profileID uuid.UUID) (*Listing, error)
	GetPublishedListing(ctx context.Context, slug string) (*Listing, error)
	BrowsePublished(ctx context.Context, filter ListingFilter) ([]Listing, error)

	// SetPublished enforces the subscription gate: publishing requires the
	// owner's status to be in the paid set.
	SetPublished(ctx context.Context, profileID uuid.UUID, published bool) (*Listing, error)
}
