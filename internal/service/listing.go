package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/cache"
	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// listingCacheTTL bounds staleness of the public listing page after an owner
// edit lands on another instance.
const listingCacheTTL = 5 * time.Minute

// ListingSvc implements the directory listing API. Public slug lookups are
// served read-through from the cache; owner writes invalidate the slug key.
type ListingSvc struct {
	listings domain.ListingStore
	profiles domain.ProfileStore
	cache    cache.Cache
	logger   *slog.Logger
}

var _ domain.ListingService = (*ListingSvc)(nil)

func NewListingService(listings domain.ListingStore, profiles domain.ProfileStore, c cache.Cache, logger *slog.Logger) *ListingSvc {
	return &ListingSvc{
		listings: listings,
		profiles: profiles,
		cache:    c,
		logger:   logger,
	}
}

// UpsertListing creates or replaces the caller's single listing. The slug is
// derived from the business name; a collision with another profile's slug is
// a conflict the caller resolves by renaming.
func (s *ListingSvc) UpsertListing(ctx context.Context, params domain.UpsertListingParams) (*domain.Listing, error) {
	const op = "listing.upsert"

	if params.BusinessName == "" {
		return nil, domain.Invalid(op, "business name is required")
	}
	if !params.Category.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "unknown category: %s", params.Category)
	}
	slug := Slugify(params.BusinessName)
	if slug == "" {
		return nil, domain.Invalid(op, "business name must contain letters or digits")
	}

	previous, err := s.listings.GetListingByProfile(ctx, params.ProfileID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Internal(err, op, "failed to load listing")
	}

	listing, err := s.listings.UpsertListing(ctx, params, slug)
	if err != nil {
		if domain.ErrorCode(err) == domain.ECONFLICT {
			return nil, err
		}
		return nil, domain.Internal(err, op, "failed to save listing")
	}

	s.invalidate(ctx, listing.Slug)
	if previous != nil && previous.Slug != listing.Slug {
		s.invalidate(ctx, previous.Slug)
	}
	return listing, nil
}

func (s *ListingSvc) GetOwnListing(ctx context.Context, profileID uuid.UUID) (*domain.Listing, error) {
	const op = "listing.get_own"

	listing, err := s.listings.GetListingByProfile(ctx, profileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "listing", profileID.String())
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load listing")
	}
	return listing, nil
}

// GetPublishedListing serves the public listing page. Cache hits skip the
// store entirely; cache errors fall through to the store so Redis outages
// degrade to uncached reads.
func (s *ListingSvc) GetPublishedListing(ctx context.Context, slug string) (*domain.Listing, error) {
	const op = "listing.get_published"

	key := listingCacheKey(slug)
	var cached domain.Listing
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("listing cache read failed", slog.String("slug", slug), slog.String("error", err.Error()))
	} else if hit {
		return &cached, nil
	}

	listing, err := s.listings.GetPublishedBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "listing", slug)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load listing")
	}

	if err := s.cache.Set(ctx, key, listing, listingCacheTTL); err != nil {
		s.logger.Warn("listing cache write failed", slog.String("slug", slug), slog.String("error", err.Error()))
	}
	return listing, nil
}

func (s *ListingSvc) BrowsePublished(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	const op = "listing.browse"

	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "unknown category: %s", filter.Category)
	}

	listings, err := s.listings.ListPublished(ctx, filter)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to browse listings")
	}
	return listings, nil
}

// SetPublished flips the listing's publication flag. Publishing requires the
// owner's subscription status to be in the paid set; unpublishing is always
// allowed so a lapsed owner can still take a listing down.
func (s *ListingSvc) SetPublished(ctx context.Context, profileID uuid.UUID, published bool) (*domain.Listing, error) {
	const op = "listing.publish"

	listing, err := s.listings.GetListingByProfile(ctx, profileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "listing", profileID.String())
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load listing")
	}

	if published {
		profile, err := s.profiles.GetProfile(ctx, profileID)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to load profile")
		}
		if !profile.CanPublish() {
			return nil, domain.Errorf(domain.EPAYMENT, op, "an active subscription is required to publish")
		}
	}

	if err := s.listings.SetPublished(ctx, listing.ID, published); err != nil {
		return nil, domain.Internal(err, op, "failed to update listing")
	}
	listing.Published = published
	s.invalidate(ctx, listing.Slug)
	if published && telemetry.Business != nil {
		telemetry.Business.ListingsPublished.Inc()
	}

	s.logger.Info("listing publication changed",
		slog.String("profile_id", profileID.String()),
		slog.String("slug", listing.Slug),
		slog.Bool("published", published))
	return listing, nil
}

func (s *ListingSvc) invalidate(ctx context.Context, slug string) {
	if err := s.cache.Delete(ctx, listingCacheKey(slug)); err != nil {
		s.logger.Warn("listing cache invalidation failed", slog.String("slug", slug), slog.String("error", err.Error()))
	}
}

func listingCacheKey(slug string) string {
	return "listing:" + slug
}

// Slugify derives a URL slug from a business name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed at both ends.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
