package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vidar/internal/domain"
)

func newPublicHandler() (*PublicHandler, *mockListingService, *mockQuoteService, *mockReviewService) {
	listings := &mockListingService{}
	quotes := &mockQuoteService{}
	reviews := &mockReviewService{}
	return NewPublicHandler(listings, quotes, reviews), listings, quotes, reviews
}

func TestBrowseListings(t *testing.T) {
	h, listings, _, _ := newPublicHandler()
	listings.BrowsePublishedFunc = func(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
		assert.Equal(t, domain.CategoryContractor, filter.Category)
		assert.Equal(t, "Portland", filter.City)
		return []domain.Listing{{ID: uuid.New(), Slug: "acme-roofing", Published: true}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/listings?category=contractor&city=Portland", nil)
	rec := httptest.NewRecorder()
	h.BrowseListings(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acme-roofing")
}

func TestBrowseListings_UnknownCategory(t *testing.T) {
	h, listings, _, _ := newPublicHandler()
	listings.BrowsePublishedFunc = func(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
		return nil, domain.Errorf(domain.EINVALID, "listing.browse", "unknown category: %s", filter.Category)
	}

	req := httptest.NewRequest(http.MethodGet, "/listings?category=plumber", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.BrowseListings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetListing_IncludesApprovedReviews(t *testing.T) {
	h, _, _, reviews := newPublicHandler()
	reviews.ListApprovedReviewsFunc = func(ctx context.Context, slug string) ([]domain.Review, error) {
		return []domain.Review{{ID: uuid.New(), Reviewer: "Dana", Rating: 5, Body: "Great work", Approved: true}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/listings/acme-roofing", nil)
	req.SetPathValue("slug", "acme-roofing")
	rec := httptest.NewRecorder()
	h.GetListing(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acme-roofing")
	assert.Contains(t, rec.Body.String(), "Great work")
}

func TestGetListing_NotFound(t *testing.T) {
	h, listings, _, reviews := newPublicHandler()
	listings.GetPublishedListingFunc = func(ctx context.Context, slug string) (*domain.Listing, error) {
		return nil, domain.NotFound("listing.get_published", "listing", slug)
	}

	req := httptest.NewRequest(http.MethodGet, "/listings/nope", nil)
	req.SetPathValue("slug", "nope")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.GetListing(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, reviews.CallLog)
}

func TestSubmitQuote(t *testing.T) {
	h, _, quotes, _ := newPublicHandler()

	body := `{"name":"Pat","email":"pat@example.com","phone":"555-0100","message":"Need a quote"}`
	req := httptest.NewRequest(http.MethodPost, "/listings/acme/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("slug", "acme")
	rec := httptest.NewRecorder()
	h.SubmitQuote(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, quotes.CallLog, 1)
	assert.Equal(t, "SubmitQuoteRequest(acme)", quotes.CallLog[0])
}

func TestSubmitQuote_ValidationFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"pat@example.com","message":"hi"}`},
		{"bad email", `{"name":"Pat","email":"not-an-email","message":"hi"}`},
		{"missing message", `{"name":"Pat","email":"pat@example.com"}`},
		{"unknown field", `{"name":"Pat","email":"pat@example.com","message":"hi","spam":true}`},
		{"not json", `name=Pat`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, quotes, _ := newPublicHandler()

			req := httptest.NewRequest(http.MethodPost, "/listings/acme/quotes", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("slug", "acme")
			rec := httptest.NewRecorder()
			h.SubmitQuote(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, quotes.CallLog)
		})
	}
}

func TestSubmitReview(t *testing.T) {
	h, _, _, reviews := newPublicHandler()

	body := `{"reviewer":"Dana","rating":5,"body":"Excellent"}`
	req := httptest.NewRequest(http.MethodPost, "/listings/acme/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("slug", "acme")
	rec := httptest.NewRecorder()
	h.SubmitReview(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, reviews.CallLog, 1)
	assert.Equal(t, "SubmitReview(acme)", reviews.CallLog[0])
}

func TestSubmitReview_RatingOutOfRange(t *testing.T) {
	h, _, _, reviews := newPublicHandler()

	body := `{"reviewer":"Dana","rating":6,"body":"Too good"}`
	req := httptest.NewRequest(http.MethodPost, "/listings/acme/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("slug", "acme")
	rec := httptest.NewRecorder()
	h.SubmitReview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, reviews.CallLog)
}
