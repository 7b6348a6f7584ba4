package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
)

// JSON views of the domain types. Wire shapes are decoupled from the domain
// structs so storage-only fields never leak.

type listingResponse struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"`
	Slug         string    `json:"slug"`
	Category     string    `json:"category"`
	City         string    `json:"city"`
	Region       string    `json:"region"`
	Phone        string    `json:"phone"`
	Description  string    `json:"description"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:           l.ID,
		BusinessName: l.BusinessName,
		Slug:         l.Slug,
		Category:     string(l.Category),
		City:         l.City,
		Region:       l.Region,
		Phone:        l.Phone,
		Description:  l.Description,
		Published:    l.Published,
		CreatedAt:    l.CreatedAt,
	}
}

func toListingResponses(listings []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}

type reviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Reviewer  string    `json:"reviewer"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		Reviewer:  r.Reviewer,
		Rating:    r.Rating,
		Body:      r.Body,
		Approved:  r.Approved,
		CreatedAt: r.CreatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	return out
}

type quoteResponse struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toQuoteResponse(q *domain.QuoteRequest) quoteResponse {
	return quoteResponse{
		ID:        q.ID,
		ListingID: q.ListingID,
		Name:      q.Name,
		Email:     q.Email,
		Phone:     q.Phone,
		Message:   q.Message,
		Status:    string(q.Status),
		CreatedAt: q.CreatedAt,
	}
}

func toQuoteResponses(quotes []domain.QuoteRequest) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, toQuoteResponse(&quotes[i]))
	}
	return out
}

type profileResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	SubscriptionStatus *string    `json:"subscription_status"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CanPublish         bool       `json:"can_publish"`
}

func toProfileResponse(p *domain.Profile) profileResponse {
	resp := profileResponse{
		ID:               p.ID,
		Email:            p.Email,
		CurrentPeriodEnd: p.CurrentPeriodEnd,
		CanPublish:       p.CanPublish(),
	}
	if p.SubscriptionStatus != nil {
		s := string(*p.SubscriptionStatus)
		resp.SubscriptionStatus = &s
	}
	return resp
}
