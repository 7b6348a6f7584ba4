package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
)

// mockListingService records calls; behaviors are overridden through the
// *Func fields.
type mockListingService struct {
	UpsertListingFunc       func(ctx context.Context, params domain.UpsertListingParams) (*domain.Listing, error)
	GetOwnListingFunc       func(ctx context.Context, profileID uuid.UUID) (*domain.Listing, error)
	GetPublishedListingFunc func(ctx context.Context, slug string) (*domain.Listing, error)
	BrowsePublishedFunc     func(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	SetPublishedFunc        func(ctx context.Context, profileID uuid.UUID, published bool) (*domain.Listing, error)

	CallLog []string
}

var _ domain.ListingService = (*mockListingService)(nil)

func (m *mockListingService) UpsertListing(ctx context.Context, params domain.UpsertListingParams) (*domain.Listing, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("UpsertListing(%s)", params.BusinessName))
	if m.UpsertListingFunc != nil {
		return m.UpsertListingFunc(ctx, params)
	}
	return &domain.Listing{ID: uuid.New(), ProfileID: params.ProfileID, BusinessName: params.BusinessName, Category: params.Category}, nil
}

func (m *mockListingService) GetOwnListing(ctx context.Context, profileID uuid.UUID) (*domain.Listing, error) {
	m.CallLog = append(m.CallLog, "GetOwnListing")
	if m.GetOwnListingFunc != nil {
		return m.GetOwnListingFunc(ctx, profileID)
	}
	return &domain.Listing{ID: uuid.New(), ProfileID: profileID}, nil
}

func (m *mockListingService) GetPublishedListing(ctx context.Context, slug string) (*domain.Listing, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetPublishedListing(%s)", slug))
	if m.GetPublishedListingFunc != nil {
		return m.GetPublishedListingFunc(ctx, slug)
	}
	return &domain.Listing{ID: uuid.New(), Slug: slug, Published: true}, nil
}

func (m *mockListingService) BrowsePublished(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	m.CallLog = append(m.CallLog, "BrowsePublished")
	if m.BrowsePublishedFunc != nil {
		return m.BrowsePublishedFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockListingService) SetPublished(ctx context.Context, profileID uuid.UUID, published bool) (*domain.Listing, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("SetPublished(%t)", published))
	if m.SetPublishedFunc != nil {
		return m.SetPublishedFunc(ctx, profileID, published)
	}
	return &domain.Listing{ID: uuid.New(), ProfileID: profileID, Published: published}, nil
}

type mockQuoteService struct {
	SubmitQuoteRequestFunc       func(ctx context.Context, params domain.CreateQuoteRequestParams) (*domain.QuoteRequest, error)
	ListOwnQuoteRequestsFunc     func(ctx context.Context, profileID uuid.UUID) ([]domain.QuoteRequest, error)
	UpdateQuoteRequestStatusFunc func(ctx context.Context, profileID, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteRequest, error)

	CallLog []string
}

var _ domain.QuoteService = (*mockQuoteService)(nil)

func (m *mockQuoteService) SubmitQuoteRequest(ctx context.Context, params domain.CreateQuoteRequestParams) (*domain.QuoteRequest, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("SubmitQuoteRequest(%s)", params.ListingSlug))
	if m.SubmitQuoteRequestFunc != nil {
		return m.SubmitQuoteRequestFunc(ctx, params)
	}
	return &domain.QuoteRequest{ID: uuid.New(), Name: params.Name, Email: params.Email, Status: domain.QuoteNew}, nil
}

func (m *mockQuoteService) ListOwnQuoteRequests(ctx context.Context, profileID uuid.UUID) ([]domain.QuoteRequest, error) {
	m.CallLog = append(m.CallLog, "ListOwnQuoteRequests")
	if m.ListOwnQuoteRequestsFunc != nil {
		return m.ListOwnQuoteRequestsFunc(ctx, profileID)
	}
	return nil, nil
}

func (m *mockQuoteService) UpdateQuoteRequestStatus(ctx context.Context, profileID, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteRequest, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("UpdateQuoteRequestStatus(%s)", status))
	if m.UpdateQuoteRequestStatusFunc != nil {
		return m.UpdateQuoteRequestStatusFunc(ctx, profileID, id, status)
	}
	return &domain.QuoteRequest{ID: id, Status: status}, nil
}

type mockReviewService struct {
	SubmitReviewFunc        func(ctx context.Context, params domain.CreateReviewParams) (*domain.Review, error)
	ListApprovedReviewsFunc func(ctx context.Context, listingSlug string) ([]domain.Review, error)
	ListOwnReviewsFunc      func(ctx context.Context, profileID uuid.UUID) ([]domain.Review, error)
	ApproveReviewFunc       func(ctx context.Context, profileID, id uuid.UUID) (*domain.Review, error)

	CallLog []string
}

var _ domain.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) SubmitReview(ctx context.Context, params domain.CreateReviewParams) (*domain.Review, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("SubmitReview(%s)", params.ListingSlug))
	if m.SubmitReviewFunc != nil {
		return m.SubmitReviewFunc(ctx, params)
	}
	return &domain.Review{ID: uuid.New(), Reviewer: params.Reviewer, Rating: params.Rating, Body: params.Body}, nil
}

func (m *mockReviewService) ListApprovedReviews(ctx context.Context, listingSlug string) ([]domain.Review, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("ListApprovedReviews(%s)", listingSlug))
	if m.ListApprovedReviewsFunc != nil {
		return m.ListApprovedReviewsFunc(ctx, listingSlug)
	}
	return nil, nil
}

func (m *mockReviewService) ListOwnReviews(ctx context.Context, profileID uuid.UUID) ([]domain.Review, error) {
	m.CallLog = append(m.CallLog, "ListOwnReviews")
	if m.ListOwnReviewsFunc != nil {
		return m.ListOwnReviewsFunc(ctx, profileID)
	}
	return nil, nil
}

func (m *mockReviewService) ApproveReview(ctx context.Context, profileID, id uuid.UUID) (*domain.Review, error) {
	m.CallLog = append(m.CallLog, "ApproveReview")
	if m.ApproveReviewFunc != nil {
		return m.ApproveReviewFunc(ctx, profileID, id)
	}
	return &domain.Review{ID: id, Approved: true}, nil
}

type mockProfileService struct {
	ProvisionProfileFunc func(ctx context.Context, userID uuid.UUID, email string) (*domain.Profile, error)
	GetOwnProfileFunc    func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	CallLog []string
}

var _ domain.ProfileService = (*mockProfileService)(nil)

func (m *mockProfileService) ProvisionProfile(ctx context.Context, userID uuid.UUID, email string) (*domain.Profile, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("ProvisionProfile(%s)", email))
	if m.ProvisionProfileFunc != nil {
		return m.ProvisionProfileFunc(ctx, userID, email)
	}
	return &domain.Profile{ID: userID, Email: email}, nil
}

func (m *mockProfileService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.CallLog = append(m.CallLog, "GetOwnProfile")
	if m.GetOwnProfileFunc != nil {
		return m.GetOwnProfileFunc(ctx, userID)
	}
	return &domain.Profile{ID: userID, Email: "owner@example.com"}, nil
}

type mockCheckoutService struct {
	CreateCheckoutSessionFunc func(ctx context.Context, userID uuid.UUID) (string, error)

	CallLog []string
}

var _ domain.CheckoutService = (*mockCheckoutService)(nil)

func (m *mockCheckoutService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID) (string, error) {
	m.CallLog = append(m.CallLog, "CreateCheckoutSession")
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, userID)
	}
	return "https://checkout.stripe.test/pay/cs_123", nil
}
