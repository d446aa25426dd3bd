package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

// SubscriptionService backs the licence page.
type SubscriptionService struct {
	gateway ports.SubscriptionGateway
	logger  *slog.Logger
	now     func() time.Time
}

// NewSubscriptionService constructs a new SubscriptionService.
func NewSubscriptionService(gateway ports.SubscriptionGateway, logger *slog.Logger) *SubscriptionService {
	if gateway == nil {
		panic("subscription service: gateway is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionService{
		gateway: gateway,
		logger:  logger.With("component", "subscription_service"),
		now:     time.Now,
	}
}

// LicenseOverview is the licence page's data.
type LicenseOverview struct {
	State      account.SubscriptionState
	History    []account.Subscription
	Plans      []account.Plan
	CanRequest bool
}

// Overview loads the current status and history concurrently. A failed history load is
// logged and shown as empty so the status remains visible.
func (s *SubscriptionService) Overview(ctx context.Context, sess *domainauth.Session) (*LicenseOverview, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleBuyer, domainauth.RoleSeller); err != nil {
		return nil, err
	}

	out := &LicenseOverview{Plans: account.Plans()}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		st, err := s.gateway.Status(egCtx, sess.Token)
		if err != nil {
			return fmt.Errorf("subscription status: %w", err)
		}
		out.State = st
		return nil
	})
	eg.Go(func() error {
		hist, err := s.gateway.History(egCtx, sess.Token)
		if err != nil {
			s.logger.WarnContext(egCtx, "subscription history unavailable", "error", err)
			return nil
		}
		out.History = hist
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out.CanRequest = out.State.Status.CanRequest()
	return out, nil
}

// Purchase validates and submits a licence request.
func (s *SubscriptionService) Purchase(ctx context.Context, sess *domainauth.Session, req account.PurchaseRequest) (account.Subscription, error) {
	if err := requireRole(sess, s.now(), domainauth.RoleBuyer, domainauth.RoleSeller); err != nil {
		return account.Subscription{}, err
	}
	if err := req.Validate(); err != nil {
		return account.Subscription{}, err
	}

	sub, err := s.gateway.Purchase(ctx, sess.Token, req)
	if err != nil {
		if apperrors.IsBackend(err) {
			return account.Subscription{}, err
		}
		return account.Subscription{}, fmt.Errorf("purchase subscription: %w", err)
	}
	s.logger.InfoContext(ctx, "licence requested", "plan", req.PlanType, "session_id", sess.ID)
	return sub, nil
}
