package handler

import (
	"net/http"

	"github.com/dukerupert/vidar/internal/domain"
)

// PublicHandler serves the anonymous directory surface: browsing, listing
// pages, and quote/review intake.
type PublicHandler struct {
	listings domain.ListingService
	quotes   domain.QuoteService
	reviews  domain.ReviewService
}

func NewPublicHandler(listings domain.ListingService, quotes domain.QuoteService, reviews domain.ReviewService) *PublicHandler {
	return &PublicHandler{
		listings: listings,
		quotes:   quotes,
		reviews:  reviews,
	}
}

// BrowseListings handles GET /listings with optional category and city
// filters.
func (h *PublicHandler) BrowseListings(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListingFilter{
		Category: domain.ListingCategory(r.URL.Query().Get("category")),
		City:     r.URL.Query().Get("city"),
	}

	listings, err := h.listings.BrowsePublished(r.Context(), filter)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"listings": toListingResponses(listings),
	})
}

// GetListing handles GET /listings/{slug}. The response includes the
// listing's approved reviews.
func (h *PublicHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	listing, err := h.listings.GetPublishedListing(r.Context(), slug)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	reviews, err := h.reviews.ListApprovedReviews(r.Context(), slug)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"listing": toListingResponse(listing),
		"reviews": toReviewResponses(reviews),
	})
}

type submitQuoteRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=50"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubmitQuote handles POST /listings/{slug}/quotes.
func (h *PublicHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	var req submitQuoteRequest
	if err := decodeJSON(r, "quote.submit", &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	quote, err := h.quotes.SubmitQuoteRequest(r.Context(), domain.CreateQuoteRequestParams{
		ListingSlug: r.PathValue("slug"),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Message,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"quote": toQuoteResponse(quote),
	})
}

type submitReviewRequest struct {
	Reviewer string `json:"reviewer" validate:"required,max=200"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Body     string `json:"body" validate:"required,max=5000"`
}

// SubmitReview handles POST /listings/{slug}/reviews. The created review is
// invisible until the listing owner approves it.
func (h *PublicHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, "review.submit", &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	review, err := h.reviews.SubmitReview(r.Context(), domain.CreateReviewParams{
		ListingSlug: r.PathValue("slug"),
		Reviewer:    req.Reviewer,
		Rating:      req.Rating,
		Body:        req.Body,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"review": toReviewResponse(review),
	})
}
