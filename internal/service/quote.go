package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
	"github.com/dukerupert/vidar/internal/email"
	"github.com/dukerupert/vidar/internal/telemetry"
)

// QuoteSvc implements the quote request API. Intake is anonymous and only
// valid against published listings; handling is owner-only and moves the
// status forward through new, contacted, closed.
type QuoteSvc struct {
	quotes   domain.QuoteStore
	listings domain.ListingStore
	profiles domain.ProfileStore
	sender   email.Sender
	logger   *slog.Logger
}

var _ domain.QuoteService = (*QuoteSvc)(nil)

func NewQuoteService(quotes domain.QuoteStore, listings domain.ListingStore, profiles domain.ProfileStore, sender email.Sender, logger *slog.Logger) *QuoteSvc {
	return &QuoteSvc{quotes: quotes, listings: listings, profiles: profiles, sender: sender, logger: logger}
}

func (s *QuoteSvc) SubmitQuoteRequest(ctx context.Context, params domain.CreateQuoteRequestParams) (*domain.QuoteRequest, error) {
	const op = "quote.submit"

	if params.Name == "" || params.Email == "" || params.Message == "" {
		return nil, domain.Invalid(op, "name, email and message are required")
	}

	listing, err := s.listings.GetPublishedBySlug(ctx, params.ListingSlug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "listing", params.ListingSlug)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load listing")
	}

	quote, err := s.quotes.CreateQuoteRequest(ctx, listing.ID, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save quote request")
	}

	s.logger.Info("quote request submitted",
		slog.String("listing", listing.Slug),
		slog.String("quote_id", quote.ID.String()))
	if telemetry.Business != nil {
		telemetry.Business.QuoteRequestsCreated.Inc()
	}

	s.notifyOwner(ctx, listing, quote)
	return quote, nil
}

// notifyOwner emails the listing owner about a new quote request. Delivery is
// best effort: a failure is logged and the submission still succeeds.
func (s *QuoteSvc) notifyOwner(ctx context.Context, listing *domain.Listing, quote *domain.QuoteRequest) {
	owner, err := s.profiles.GetProfile(ctx, listing.ProfileID)
	if err != nil {
		s.logger.Warn("quote notification skipped, owner lookup failed",
			slog.String("listing", listing.Slug), slog.String("error", err.Error()))
		return
	}

	msg := email.NewQuoteRequestMessage(email.QuoteNotification{
		OwnerEmail:     owner.Email,
		BusinessName:   listing.BusinessName,
		RequesterName:  quote.Name,
		RequesterEmail: quote.Email,
		RequesterPhone: quote.Phone,
		Message:        quote.Message,
	})
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("quote notification failed",
			slog.String("listing", listing.Slug), slog.String("error", err.Error()))
	}
}

func (s *QuoteSvc) ListOwnQuoteRequests(ctx context.Context, profileID uuid.UUID) ([]domain.QuoteRequest, error) {
	quotes, err := s.quotes.ListQuoteRequestsForProfile(ctx, profileID)
	if err != nil {
		return nil, domain.Internal(err, "quote.list", "failed to list quote requests")
	}
	return quotes, nil
}

// UpdateQuoteRequestStatus moves a quote request forward. Transitions only
// run one way: new to contacted or closed, contacted to closed. Setting the
// current status again is a no-op.
func (s *QuoteSvc) UpdateQuoteRequestStatus(ctx context.Context, profileID, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteRequest, error) {
	const op = "quote.update_status"

	if !status.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "unknown status: %s", status)
	}

	quote, ownerID, err := s.quotes.GetQuoteRequest(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(op, "quote request", id.String())
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load quote request")
	}
	if ownerID != profileID {
		return nil, domain.Forbidden(op, "quote request belongs to another listing")
	}

	if quote.Status == status {
		return quote, nil
	}
	if !quoteTransitionAllowed(quote.Status, status) {
		return nil, domain.Errorf(domain.EINVALID, op, "cannot move quote request from %s to %s", quote.Status, status)
	}

	if err := s.quotes.SetQuoteRequestStatus(ctx, id, status); err != nil {
		return nil, domain.Internal(err, op, "failed to update quote request")
	}
	quote.Status = status
	return quote, nil
}

func quoteTransitionAllowed(from, to domain.QuoteStatus) bool {
	switch from {
	case domain.QuoteNew:
		return to == domain.QuoteContacted || to == domain.QuoteClosed
	case domain.QuoteContacted:
		return to == domain.QuoteClosed
	}
	return false
}
