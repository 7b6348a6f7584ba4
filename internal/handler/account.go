package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/middleware"
)

// AccountHandler serves the authenticated owner surface: profile, billing,
// listing management, quote handling and review moderation. Every handler
// here sits behind middleware.RequireUser.
type AccountHandler struct {
	profiles domain.ProfileService
	checkout domain.CheckoutService
	listings domain.ListingService
	quotes   domain.QuoteService
	reviews  domain.ReviewService
}

func NewAccountHandler(
	profiles domain.ProfileService,
	checkout domain.CheckoutService,
	listings domain.ListingService,
	quotes domain.QuoteService,
	reviews domain.ReviewService,
) *AccountHandler {
	return &AccountHandler{
		profiles: profiles,
		checkout: checkout,
		listings: listings,
		quotes:   quotes,
		reviews:  reviews,
	}
}

func userID(r *http.Request) uuid.UUID {
	if user := middleware.UserFrom(r.Context()); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// GetProfile handles GET /account/profile.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetOwnProfile(r.Context(), userID(r))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": toProfileResponse(profile),
	})
}

// CreateCheckout handles POST /account/billing/checkout. On success the
// response is a 303 redirect to the hosted checkout page; failures come back
// as structured error payloads.
func (h *AccountHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	url, err := h.checkout.CreateCheckoutSession(r.Context(), userID(r))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

type upsertListingRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=200"`
	Category     string `json:"category" validate:"required,oneof=contractor realtor"`
	City         string `json:"city" validate:"max=100"`
	Region       string `json:"region" validate:"max=100"`
	Phone        string `json:"phone" validate:"max=50"`
	Description  string `json:"description" validate:"max=5000"`
}

// UpsertListing handles PUT /account/listing.
func (h *AccountHandler) UpsertListing(w http.ResponseWriter, r *http.Request) {
	var req upsertListingRequest
	if err := decodeJSON(r, "listing.upsert", &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	listing, err := h.listings.UpsertListing(r.Context(), domain.UpsertListingParams{
		ProfileID:    userID(r),
		BusinessName: req.BusinessName,
		Category:     domain.ListingCategory(req.Category),
		City:         req.City,
		Region:       req.Region,
		Phone:        req.Phone,
		Description:  req.Description,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"listing": toListingResponse(listing),
	})
}

// GetListing handles GET /account/listing.
func (h *AccountHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetOwnListing(r.Context(), userID(r))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"listing": toListingResponse(listing),
	})
}

// PublishListing handles POST /account/listing/publish. Publishing is
// rejected with 402 unless the subscription status is in the paid set.
func (h *AccountHandler) PublishListing(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// UnpublishListing handles POST /account/listing/unpublish. Unpublishing is
// never subscription-gated; a lapsed owner can always take a listing down.
func (h *AccountHandler) UnpublishListing(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *AccountHandler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	listing, err := h.listings.SetPublished(r.Context(), userID(r), published)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"listing": toListingResponse(listing),
	})
}

// ListQuotes handles GET /account/quotes.
func (h *AccountHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.ListOwnQuoteRequests(r.Context(), userID(r))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quotes": toQuoteResponses(quotes),
	})
}

type updateQuoteRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted closed"`
}

// UpdateQuoteStatus handles PATCH /account/quotes/{id}.
func (h *AccountHandler) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("quote.update_status", "invalid quote id"))
		return
	}

	var req updateQuoteRequest
	if err := decodeJSON(r, "quote.update_status", &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	quote, err := h.quotes.UpdateQuoteRequestStatus(r.Context(), userID(r), quoteID, domain.QuoteStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quote": toQuoteResponse(quote),
	})
}

// ListReviews handles GET /account/reviews, including the not-yet-approved
// ones awaiting moderation.
func (h *AccountHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListOwnReviews(r.Context(), userID(r))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": toReviewResponses(reviews),
	})
}

// ApproveReview handles POST /account/reviews/{id}/approve.
func (h *AccountHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("review.approve", "invalid review id"))
		return
	}

	review, err := h.reviews.ApproveReview(r.Context(), userID(r), reviewID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"review": toReviewResponse(review),
	})
}
