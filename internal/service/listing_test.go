package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vidar/internal/cache"
	"github.com/dukerupert/vidar/internal/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Roofing", "acme-roofing"},
		{"punctuation collapsed", "Bob's  Plumbing & Heating", "bob-s-plumbing-heating"},
		{"leading and trailing junk", "  --Hello World!  ", "hello-world"},
		{"digits kept", "24/7 Locksmith", "24-7-locksmith"},
		{"already clean", "realty-one", "realty-one"},
		{"nothing usable", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func newListingService(listings *fakeListingStore, profiles *fakeProfileStore) *ListingSvc {
	return NewListingService(listings, profiles, cache.NewNoop(), testLogger())
}

func TestUpsertListing(t *testing.T) {
	listings := newFakeListingStore()
	profiles := newFakeProfileStore()
	svc := newListingService(listings, profiles)
	profileID := uuid.New()

	listing, err := svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID:    profileID,
		BusinessName: "Acme Roofing",
		Category:     domain.CategoryContractor,
		City:         "Spokane",
	})
	require.NoError(t, err)
	assert.Equal(t, "acme-roofing", listing.Slug)
	assert.False(t, listing.Published, "new listings start unpublished")

	// Editing replaces fields and re-derives the slug; still one listing.
	updated, err := svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID:    profileID,
		BusinessName: "Acme Roofing LLC",
		Category:     domain.CategoryContractor,
		City:         "Spokane",
	})
	require.NoError(t, err)
	assert.Equal(t, listing.ID, updated.ID)
	assert.Equal(t, "acme-roofing-llc", updated.Slug)
}

func TestUpsertListing_Validation(t *testing.T) {
	svc := newListingService(newFakeListingStore(), newFakeProfileStore())

	_, err := svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID: uuid.New(),
		Category:  domain.CategoryContractor,
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID:    uuid.New(),
		BusinessName: "Acme",
		Category:     "plumber",
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID:    uuid.New(),
		BusinessName: "!!!",
		Category:     domain.CategoryRealtor,
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestUpsertListing_SlugConflict(t *testing.T) {
	listings := newFakeListingStore()
	svc := newListingService(listings, newFakeProfileStore())

	_, err := svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID:    uuid.New(),
		BusinessName: "Acme Roofing",
		Category:     domain.CategoryContractor,
	})
	require.NoError(t, err)

	_, err = svc.UpsertListing(context.Background(), domain.UpsertListingParams{
		ProfileID:    uuid.New(),
		BusinessName: "Acme Roofing",
		Category:     domain.CategoryContractor,
	})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestSetPublished_RequiresPaidSubscription(t *testing.T) {
	tests := []struct {
		name     string
		status   *domain.SubscriptionStatus
		wantCode string
	}{
		{"no subscription", nil, domain.EPAYMENT},
		{"incomplete", statusPtr(domain.SubscriptionIncomplete), domain.EPAYMENT},
		{"past due", statusPtr(domain.SubscriptionPastDue), domain.EPAYMENT},
		{"canceled", statusPtr(domain.SubscriptionCanceled), domain.EPAYMENT},
		{"active", statusPtr(domain.SubscriptionActive), ""},
		{"trialing", statusPtr(domain.SubscriptionTrialing), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := newFakeProfileStore()
			listings := newFakeListingStore()
			profileID := uuid.New()
			profiles.add(&domain.Profile{ID: profileID, Email: "a@example.com", SubscriptionStatus: tt.status})
			listings.add(&domain.Listing{
				ID:        uuid.New(),
				ProfileID: profileID,
				Slug:      "acme",
				Category:  domain.CategoryContractor,
			})

			svc := newListingService(listings, profiles)
			listing, err := svc.SetPublished(context.Background(), profileID, true)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, listing.Published)
		})
	}
}

func TestSetPublished_UnpublishAlwaysAllowed(t *testing.T) {
	// A lapsed owner can still take the listing down.
	profiles := newFakeProfileStore()
	listings := newFakeListingStore()
	profileID := uuid.New()
	profiles.add(&domain.Profile{ID: profileID, Email: "a@example.com", SubscriptionStatus: statusPtr(domain.SubscriptionCanceled)})
	listings.add(&domain.Listing{
		ID:        uuid.New(),
		ProfileID: profileID,
		Slug:      "acme",
		Category:  domain.CategoryContractor,
		Published: true,
	})

	svc := newListingService(listings, profiles)
	listing, err := svc.SetPublished(context.Background(), profileID, false)
	require.NoError(t, err)
	assert.False(t, listing.Published)
}

func TestGetPublishedListing(t *testing.T) {
	listings := newFakeListingStore()
	listings.add(&domain.Listing{
		ID:        uuid.New(),
		ProfileID: uuid.New(),
		Slug:      "acme",
		Category:  domain.CategoryContractor,
		Published: true,
	})
	listings.add(&domain.Listing{
		ID:        uuid.New(),
		ProfileID: uuid.New(),
		Slug:      "hidden",
		Category:  domain.CategoryRealtor,
	})

	svc := newListingService(listings, newFakeProfileStore())

	listing, err := svc.GetPublishedListing(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", listing.Slug)

	_, err = svc.GetPublishedListing(context.Background(), "hidden")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err), "unpublished listings are invisible")

	_, err = svc.GetPublishedListing(context.Background(), "missing")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestBrowsePublished_FilterValidation(t *testing.T) {
	svc := newListingService(newFakeListingStore(), newFakeProfileStore())

	_, err := svc.BrowsePublished(context.Background(), domain.ListingFilter{Category: "florist"})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
