package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dukerupert/vidar/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProfileStore is an in-memory ProfileStore mirroring the SQL update
// semantics: single-row matches by exact id, empty-string ids never clobber
// stored ones, and a nil period end leaves the stored value alone.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile

	setCustomerErr error
	calls          []string
}

var _ domain.ProfileStore = (*fakeProfileStore)(nil)

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (f *fakeProfileStore) add(p *domain.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.profiles[p.ID] = &cp
}

func (f *fakeProfileStore) get(id uuid.UUID) *domain.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (f *fakeProfileStore) CreateProfile(ctx context.Context, id uuid.UUID, email string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "CreateProfile")
	if p, ok := f.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	p := &domain.Profile{ID: id, Email: email}
	f.profiles[id] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) SetStripeCustomer(ctx context.Context, id uuid.UUID, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "SetStripeCustomer")
	if f.setCustomerErr != nil {
		return f.setCustomerErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StripeCustomerID = &customerID
	return nil
}

func (f *fakeProfileStore) LinkCheckout(ctx context.Context, params domain.LinkCheckoutParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[params.ProfileID]
	if !ok {
		return 0, nil
	}
	if params.CustomerID != "" {
		v := params.CustomerID
		p.StripeCustomerID = &v
	}
	if params.SubscriptionID != "" {
		v := params.SubscriptionID
		p.StripeSubscriptionID = &v
	}
	if params.Status != nil {
		v := *params.Status
		p.SubscriptionStatus = &v
	}
	return 1, nil
}

func (f *fakeProfileStore) apply(matches func(*domain.Profile) bool, update domain.SubscriptionUpdate) int64 {
	var rows int64
	for _, p := range f.profiles {
		if !matches(p) {
			continue
		}
		if update.CustomerID != "" {
			v := update.CustomerID
			p.StripeCustomerID = &v
		}
		sid := update.SubscriptionID
		p.StripeSubscriptionID = &sid
		status := update.Status
		p.SubscriptionStatus = &status
		if update.PeriodEnd != nil {
			v := update.PeriodEnd.UTC()
			p.CurrentPeriodEnd = &v
		}
		rows++
	}
	return rows
}

func (f *fakeProfileStore) UpdateSubscriptionBySubscriptionID(ctx context.Context, update domain.SubscriptionUpdate) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apply(func(p *domain.Profile) bool {
		return p.StripeSubscriptionID != nil && *p.StripeSubscriptionID == update.SubscriptionID
	}, update), nil
}

func (f *fakeProfileStore) UpdateSubscriptionByCustomerID(ctx context.Context, update domain.SubscriptionUpdate) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apply(func(p *domain.Profile) bool {
		return p.StripeCustomerID != nil && *p.StripeCustomerID == update.CustomerID
	}, update), nil
}

func (f *fakeProfileStore) setStatus(matches func(*domain.Profile) bool, status domain.SubscriptionStatus) int64 {
	var rows int64
	for _, p := range f.profiles {
		if matches(p) {
			v := status
			p.SubscriptionStatus = &v
			rows++
		}
	}
	return rows
}

func (f *fakeProfileStore) SetStatusBySubscriptionID(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setStatus(func(p *domain.Profile) bool {
		return p.StripeSubscriptionID != nil && *p.StripeSubscriptionID == subscriptionID
	}, status), nil
}

func (f *fakeProfileStore) SetStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setStatus(func(p *domain.Profile) bool {
		return p.StripeCustomerID != nil && *p.StripeCustomerID == customerID
	}, status), nil
}

// fakeListingStore is an in-memory ListingStore.
type fakeListingStore struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*domain.Listing
}

var _ domain.ListingStore = (*fakeListingStore)(nil)

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: make(map[uuid.UUID]*domain.Listing)}
}

func (f *fakeListingStore) add(l *domain.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	f.listings[l.ID] = &cp
}

func (f *fakeListingStore) UpsertListing(ctx context.Context, params domain.UpsertListingParams, slug string) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.Slug == slug && l.ProfileID != params.ProfileID {
			return nil, domain.Conflict("listing.upsert", "that business name is already taken")
		}
	}
	for _, l := range f.listings {
		if l.ProfileID == params.ProfileID {
			l.BusinessName = params.BusinessName
			l.Slug = slug
			l.Category = params.Category
			l.City = params.City
			l.Region = params.Region
			l.Phone = params.Phone
			l.Description = params.Description
			cp := *l
			return &cp, nil
		}
	}
	l := &domain.Listing{
		ID:           uuid.New(),
		ProfileID:    params.ProfileID,
		BusinessName: params.BusinessName,
		Slug:         slug,
		Category:     params.Category,
		City:         params.City,
		Region:       params.Region,
		Phone:        params.Phone,
		Description:  params.Description,
	}
	f.listings[l.ID] = l
	cp := *l
	return &cp, nil
}

func (f *fakeListingStore) GetListingByProfile(ctx context.Context, profileID uuid.UUID) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.ProfileID == profileID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeListingStore) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.Slug == slug && l.Published {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeListingStore) ListPublished(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Listing
	for _, l := range f.listings {
		if !l.Published {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.City != "" && l.City != filter.City {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeListingStore) SetPublished(ctx context.Context, listingID uuid.UUID, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[listingID]
	if !ok {
		return domain.ErrNotFound
	}
	l.Published = published
	return nil
}

// fakeQuoteStore is an in-memory QuoteStore. owners maps quote id to the
// owning profile id.
type fakeQuoteStore struct {
	mu     sync.Mutex
	quotes map[uuid.UUID]*domain.QuoteRequest
	owners map[uuid.UUID]uuid.UUID
}

var _ domain.QuoteStore = (*fakeQuoteStore)(nil)

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{
		quotes: make(map[uuid.UUID]*domain.QuoteRequest),
		owners: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeQuoteStore) add(q *domain.QuoteRequest, ownerID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *q
	f.quotes[q.ID] = &cp
	f.owners[q.ID] = ownerID
}

func (f *fakeQuoteStore) CreateQuoteRequest(ctx context.Context, listingID uuid.UUID, params domain.CreateQuoteRequestParams) (*domain.QuoteRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := &domain.QuoteRequest{
		ID:        uuid.New(),
		ListingID: listingID,
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Message:   params.Message,
		Status:    domain.QuoteNew,
	}
	f.quotes[q.ID] = q
	cp := *q
	return &cp, nil
}

func (f *fakeQuoteStore) ListQuoteRequestsForProfile(ctx context.Context, profileID uuid.UUID) ([]domain.QuoteRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.QuoteRequest
	for id, q := range f.quotes {
		if f.owners[id] == profileID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuoteStore) GetQuoteRequest(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[id]
	if !ok {
		return nil, uuid.Nil, domain.ErrNotFound
	}
	cp := *q
	return &cp, f.owners[id], nil
}

func (f *fakeQuoteStore) SetQuoteRequestStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Status = status
	return nil
}

// fakeReviewStore is an in-memory ReviewStore.
type fakeReviewStore struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*domain.Review
	owners  map[uuid.UUID]uuid.UUID
}

var _ domain.ReviewStore = (*fakeReviewStore)(nil)

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{
		reviews: make(map[uuid.UUID]*domain.Review),
		owners:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeReviewStore) add(r *domain.Review, ownerID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reviews[r.ID] = &cp
	f.owners[r.ID] = ownerID
}

func (f *fakeReviewStore) CreateReview(ctx context.Context, listingID uuid.UUID, params domain.CreateReviewParams) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &domain.Review{
		ID:        uuid.New(),
		ListingID: listingID,
		Reviewer:  params.Reviewer,
		Rating:    params.Rating,
		Body:      params.Body,
	}
	f.reviews[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeReviewStore) ListApprovedForListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, r := range f.reviews {
		if r.ListingID == listingID && r.Approved {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) ListReviewsForProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for id, r := range f.reviews {
		if f.owners[id] == profileID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) GetReview(ctx context.Context, id uuid.UUID) (*domain.Review, uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return nil, uuid.Nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, f.owners[id], nil
}

func (f *fakeReviewStore) ApproveReview(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Approved = true
	return nil
}
