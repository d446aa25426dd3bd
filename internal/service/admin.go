package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Admin    ports.AdminGateway
	Listings ports.ListingGateway
	Logger   *slog.Logger
}

// AdminService backs the admin dashboard and its moderation actions.
type AdminService struct {
	admin    ports.AdminGateway
	listings ports.ListingGateway
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	if opts.Admin == nil || opts.Listings == nil {
		panic("admin service: admin and listing gateways are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		admin:    opts.Admin,
		listings: opts.Listings,
		logger:   logger.With("component", "admin_service"),
		now:      time.Now,
	}
}

// AdminDashboard is everything the admin page shows.
type AdminDashboard struct {
	Stats    account.Stats
	Users    []account.User
	Listings []listing.Listing
	Pending  []account.Subscription
	// StatsDerived is true when the backend stats call failed and totals were computed locally.
	StatsDerived bool
}

// Dashboard loads users, listings and pending licence requests concurrently, plus platform
// stats. When the stats endpoint fails the totals are derived from the loaded collections.
func (s *AdminService) Dashboard(ctx context.Context, sess *domainauth.Session) (*AdminDashboard, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleAdmin); err != nil {
		return nil, err
	}

	out := &AdminDashboard{}
	var statsErr error

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		users, err := s.admin.Users(egCtx, sess.Token)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		out.Users = users
		return nil
	})
	eg.Go(func() error {
		ls, err := s.listings.List(egCtx)
		if err != nil {
			return fmt.Errorf("list listings: %w", err)
		}
		out.Listings = ls
		return nil
	})
	eg.Go(func() error {
		pending, err := s.admin.PendingSubscriptions(egCtx, sess.Token)
		if err != nil {
			return fmt.Errorf("list pending subscriptions: %w", err)
		}
		out.Pending = pending
		return nil
	})
	eg.Go(func() error {
		out.Stats, statsErr = s.admin.Stats(egCtx, sess.Token)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if statsErr != nil {
		s.logger.WarnContext(ctx, "admin stats unavailable, deriving locally", "error", statsErr)
		out.Stats = account.StatsFrom(out.Users, out.Listings, out.Pending)
		out.StatsDerived = true
	}
	return out, nil
}

// SuspendUser suspends an account.
func (s *AdminService) SuspendUser(ctx context.Context, sess *domainauth.Session, id account.ID) error {
	return s.setStatus(ctx, sess, id, account.UserSuspended)
}

// ActivateUser re-activates a suspended account.
func (s *AdminService) ActivateUser(ctx context.Context, sess *domainauth.Session, id account.ID) error {
	return s.setStatus(ctx, sess, id, account.UserActive)
}

func (s *AdminService) setStatus(ctx context.Context, sess *domainauth.Session, id account.ID, status account.UserStatus) error {
	if err := requireRole(sess, s.now(), domainauth.RoleAdmin); err != nil {
		return err
	}
	if err := s.admin.SetUserStatus(ctx, sess.Token, id, status); err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	s.logger.InfoContext(ctx, "user status changed", "user_id", id, "status", status)
	return nil
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, sess *domainauth.Session, id account.ID) error {
	if err := requireRole(sess, s.now(), domainauth.RoleAdmin); err != nil {
		return err
	}
	if err := s.admin.DeleteUser(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

// DeleteListing removes any listing.
func (s *AdminService) DeleteListing(ctx context.Context, sess *domainauth.Session, id listing.ID) error {
	if err := requireRole(sess, s.now(), domainauth.RoleAdmin); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	s.logger.InfoContext(ctx, "listing removed by admin", "listing_id", id)
	return nil
}

// ApproveSubscription grants a licence request.
func (s *AdminService) ApproveSubscription(ctx context.Context, sess *domainauth.Session, id account.ID) error {
	if err := requireRole(sess, s.now(), domainauth.RoleAdmin); err != nil {
		return err
	}
	if err := s.admin.ApproveSubscription(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("approve subscription: %w", err)
	}
	s.logger.InfoContext(ctx, "subscription approved", "subscription_id", id)
	return nil
}

// RejectSubscription declines a licence request.
func (s *AdminService) RejectSubscription(ctx context.Context, sess *domainauth.Session, id account.ID) error {
	if err := requireRole(sess, s.now(), domainauth.RoleAdmin); err != nil {
		return err
	}
	if err := s.admin.RejectSubscription(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("reject subscription: %w", err)
	}
	s.logger.InfoContext(ctx, "subscription rejected", "subscription_id", id)
	return nil
}
