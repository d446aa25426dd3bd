package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

const defaultLatestCount = 6

var errReconcilersMissing = errors.New("reconciler registry not configured")

// ListingServiceOptions groups dependencies for ListingService.
type ListingServiceOptions struct {
	Listings    ports.ListingGateway
	Reconcilers *ReconcilerRegistry
	Logger      *slog.Logger
}

// ListingService assembles listing pages and forwards seller and admin listing writes.
type ListingService struct {
	listings    ports.ListingGateway
	reconcilers *ReconcilerRegistry
	logger      *slog.Logger
	now         func() time.Time
}

// NewListingService constructs a new ListingService.
func NewListingService(opts ListingServiceOptions) *ListingService {
	if opts.Listings == nil {
		panic("listing service: listing gateway is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{
		listings:    opts.Listings,
		reconcilers: opts.Reconcilers,
		logger:      logger.With("component", "listing_service"),
		now:         time.Now,
	}
}

// Browse returns the public listings matching f together with per-category counts of the unfiltered set.
func (s *ListingService) Browse(ctx context.Context, f listing.Filter) ([]listing.Listing, []listing.CategoryCount, error) {
	all, err := s.listings.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list listings: %w", err)
	}
	return f.Apply(all), listing.CountByCategory(all), nil
}

// Find returns the listing with id from the public collection.
func (s *ListingService) Find(ctx context.Context, id listing.ID) (listing.Listing, error) {
	all, err := s.listings.List(ctx)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("list listings: %w", err)
	}
	for _, l := range all {
		if l.ID == id {
			return l, nil
		}
	}
	return listing.Listing{}, apperrors.NotFound("This listing is no longer available.")
}

// Latest returns up to n listings, newest first when the backend reports creation times.
func (s *ListingService) Latest(ctx context.Context, n int) ([]listing.Listing, error) {
	if n <= 0 {
		n = defaultLatestCount
	}
	all, err := s.listings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	sorted := make([]listing.Listing, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		if a == nil || b == nil {
			return false
		}
		return a.After(*b)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// BuyerView is the buyer dashboard's data.
type BuyerView struct {
	Filter    listing.Filter
	Results   []listing.Card
	Saved     []listing.Card
	Contacted []listing.Card
	Counts    []listing.CategoryCount
	Total     int
}

// BuyerDashboard loads all listings and the buyer's reconciler concurrently and renders cards.
func (s *ListingService) BuyerDashboard(ctx context.Context, sess *domainauth.Session, f listing.Filter) (*BuyerView, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleBuyer); err != nil {
		return nil, err
	}
	if s.reconcilers == nil {
		return nil, errReconcilersMissing
	}

	var (
		all []listing.Listing
		rec *ListingReconciler
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		all, err = s.listings.List(egCtx)
		if err != nil {
			return fmt.Errorf("list listings: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		rec, err = s.reconcilers.For(egCtx, sess)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	saved, contacted := rec.Saved(), rec.Contacted()
	return &BuyerView{
		Filter:    f,
		Results:   listing.Cards(f.Apply(all), saved, contacted),
		Saved:     listing.Cards(listing.Pick(all, saved), saved, contacted),
		Contacted: listing.Cards(listing.Pick(all, contacted), saved, contacted),
		Counts:    listing.CountByCategory(all),
		Total:     len(all),
	}, nil
}

// MarketCards renders listings for a visitor: masked for anonymous users and non-buyers,
// reconciled against saved and contacted sets for buyers.
func (s *ListingService) MarketCards(ctx context.Context, sess *domainauth.Session, ls []listing.Listing) []listing.Card {
	if s.reconcilers == nil || requireRole(sess, s.now(), domainauth.RoleBuyer) != nil {
		return listing.PublicCards(ls)
	}
	rec, err := s.reconcilers.For(ctx, sess)
	if err != nil {
		s.logger.WarnContext(ctx, "load buyer listing state", "session_id", sess.ID, "error", err)
		return listing.PublicCards(ls)
	}
	return rec.Cards(ls)
}

// Reconciler returns the session's reconciler for save and contact actions.
func (s *ListingService) Reconciler(ctx context.Context, sess *domainauth.Session) (*ListingReconciler, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleBuyer); err != nil {
		return nil, err
	}
	if s.reconcilers == nil {
		return nil, errReconcilersMissing
	}
	return s.reconcilers.For(ctx, sess)
}

// SellerView is the seller pages' data.
type SellerView struct {
	Listings   []listing.Listing
	ByCategory map[listing.Category][]listing.Listing
	Active     int
	Sold       int
}

// SellerListings returns the seller's own listings with status counts.
func (s *ListingService) SellerListings(ctx context.Context, sess *domainauth.Session) (*SellerView, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleSeller); err != nil {
		return nil, err
	}
	mine, err := s.listings.ListMine(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("list own listings: %w", err)
	}
	active, sold := listing.StatusCounts(mine)
	return &SellerView{
		Listings:   mine,
		ByCategory: listing.GroupByCategory(mine),
		Active:     active,
		Sold:       sold,
	}, nil
}

// Create validates and posts a new listing for the seller.
func (s *ListingService) Create(ctx context.Context, sess *domainauth.Session, req listing.CreateRequest) (listing.Listing, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleSeller); err != nil {
		return listing.Listing{}, err
	}
	if err := req.Validate(); err != nil {
		return listing.Listing{}, err
	}
	l, err := s.listings.Create(ctx, sess.Token, req)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("create listing: %w", err)
	}
	s.logger.InfoContext(ctx, "listing created", "listing_id", l.ID, "category", l.Category)
	return l, nil
}

// Update validates and applies changes to a listing owned by the seller (or any listing for an admin).
func (s *ListingService) Update(ctx context.Context, sess *domainauth.Session, id listing.ID, req listing.UpdateRequest) (listing.Listing, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleSeller, domainauth.RoleAdmin); err != nil {
		return listing.Listing{}, err
	}
	if err := req.Validate(); err != nil {
		return listing.Listing{}, err
	}
	l, err := s.listings.Update(ctx, sess.Token, id, req)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("update listing: %w", err)
	}
	return l, nil
}

// Delete removes a listing owned by the seller (or any listing for an admin).
func (s *ListingService) Delete(ctx context.Context, sess *domainauth.Session, id listing.ID) error {
	if err := requireRole(sess, s.now(), domainauth.RoleSeller, domainauth.RoleAdmin); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	s.logger.InfoContext(ctx, "listing deleted", "listing_id", id, "role", sess.Role)
	return nil
}
