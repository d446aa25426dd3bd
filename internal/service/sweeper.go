package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
)

// RegistrySweeperOptions groups dependencies for RegistrySweeper.
type RegistrySweeperOptions struct {
	Registry *ReconcilerRegistry // Required
	// Interval between sweeps. Defaults to five minutes.
	Interval time.Duration
	// IdleTimeout evicts reconcilers unused for this long; zero disables idle eviction.
	IdleTimeout time.Duration
	Logger      *slog.Logger
	Metrics     *metrics.Marketplace
}

// RegistrySweeper periodically removes cached listing reconcilers that no request
// will reach again: sessions that expired without a logout, and sessions gone idle.
type RegistrySweeper struct {
	registry    *ReconcilerRegistry
	interval    time.Duration
	idleTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Marketplace
}

// NewRegistrySweeper constructs a RegistrySweeper.
func NewRegistrySweeper(opts RegistrySweeperOptions) (*RegistrySweeper, error) {
	if opts.Registry == nil {
		return nil, errors.New("reconciler registry is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrySweeper{
		registry:    opts.Registry,
		interval:    interval,
		idleTimeout: opts.IdleTimeout,
		logger:      logger.With("component", "registry_sweeper"),
		metrics:     opts.Metrics,
	}, nil
}

// Run sweeps at the configured interval until ctx is cancelled.
// Returns nil on graceful shutdown.
func (s *RegistrySweeper) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting registry sweeper", "interval", s.interval, "idle_timeout", s.idleTimeout)

	// Spread instances that start together.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "registry sweeper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil && !isContextCancellation(err) {
				s.logger.ErrorContext(ctx, "registry sweep failed", "error", err)
			}
		}
	}
}

// waitWithJitter waits a random delay up to 10% of the interval.
func (s *RegistrySweeper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

type sweepStep struct {
	operation string
	fn        func() int
}

// Sweep runs one pass over the registry.
func (s *RegistrySweeper) Sweep(ctx context.Context) error {
	start := time.Now()
	steps := []sweepStep{
		{operation: "prune_expired", fn: s.registry.PruneExpired},
		{operation: "evict_idle", fn: func() int { return s.registry.EvictIdle(s.idleTimeout) }},
	}

	var err error
	for _, step := range steps {
		if err = ctx.Err(); err != nil {
			s.metrics.SweepOperation(step.operation, 0, err)
			err = fmt.Errorf("%s: %w", step.operation, err)
			break
		}
		removed := step.fn()
		s.metrics.SweepOperation(step.operation, removed, nil)
		if removed > 0 {
			s.logger.InfoContext(ctx, "swept reconcilers", "operation", step.operation, "count", removed)
		}
	}

	s.metrics.SweepCompleted(time.Since(start), err)
	return err
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
