package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

// ReconcilerRegistry hands out one hydrated ListingReconciler per session and drops it on logout.
type ReconcilerRegistry struct {
	deps ReconcilerDeps

	mu        sync.Mutex
	bySession map[string]*ListingReconciler
	lastUsed  map[string]time.Time
	hydrate   singleflight.Group

	stopOnce sync.Once
	unsub    func()
	done     chan struct{}
}

// NewReconcilerRegistry constructs a registry. When events is non-nil the registry
// evicts a session's reconciler as soon as that session logs out.
func NewReconcilerRegistry(deps ReconcilerDeps, events *SessionEvents) *ReconcilerRegistry {
	if deps.Buyer == nil {
		panic("reconciler registry: buyer gateway is required")
	}
	reg := &ReconcilerRegistry{
		deps:      deps.withDefaults(),
		bySession: make(map[string]*ListingReconciler),
		lastUsed:  make(map[string]time.Time),
		done:      make(chan struct{}),
	}
	if events == nil {
		close(reg.done)
		return reg
	}

	unsub, ch := events.Subscribe()
	reg.unsub = unsub
	go reg.listen(ch)
	return reg
}

func (g *ReconcilerRegistry) listen(ch <-chan SessionEvent) {
	defer close(g.done)
	for ev := range ch {
		if ev.Kind == SessionLogout {
			g.Evict(ev.SessionID)
		}
	}
}

// For returns the reconciler for sess, hydrating saved and contacted ids from the backend on first use.
// Concurrent callers for one session share a single hydration. It runs detached from any one
// caller's cancellation and is bounded by HydrateTimeout; a caller whose ctx ends stops
// waiting without failing the others.
func (g *ReconcilerRegistry) For(ctx context.Context, sess *domainauth.Session) (*ListingReconciler, error) {
	if !sess.Valid(g.deps.Now()) {
		return nil, apperrors.Unauthenticated("Please log in to continue.")
	}

	if r := g.cached(sess); r != nil {
		return r, nil
	}

	snapshot := *sess
	ch := g.hydrate.DoChan(sess.ID, func() (any, error) {
		if r := g.cached(&snapshot); r != nil {
			return r, nil
		}
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.deps.HydrateTimeout)
		defer cancel()
		r, err := g.load(hctx, snapshot)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.pruneLocked()
		g.bySession[snapshot.ID] = r
		g.lastUsed[snapshot.ID] = g.deps.Now()
		n := len(g.bySession)
		g.mu.Unlock()
		g.deps.Metrics.ActiveReconcilers(n)
		return r, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.FromContext(ctx.Err(), "Loading your saved listings timed out.")
	case res := <-ch:
		if res.Err != nil {
			return nil, apperrors.FromContext(res.Err, "Loading your saved listings timed out.")
		}
		return res.Val.(*ListingReconciler), nil
	}
}

func (g *ReconcilerRegistry) cached(sess *domainauth.Session) *ListingReconciler {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.bySession[sess.ID]
	if !ok {
		return nil
	}
	if r.session.Token != sess.Token {
		g.dropLocked(sess.ID)
		return nil
	}
	g.lastUsed[sess.ID] = g.deps.Now()
	return r
}

func (g *ReconcilerRegistry) load(ctx context.Context, sess domainauth.Session) (*ListingReconciler, error) {
	var saved, contacted []listing.Listing

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		saved, err = g.deps.Buyer.SavedListings(egCtx, sess.Token)
		if err != nil {
			return fmt.Errorf("load saved listings: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		contacted, err = g.deps.Buyer.ContactedListings(egCtx, sess.Token)
		if err != nil {
			return fmt.Errorf("load contacted listings: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return NewListingReconciler(g.deps, sess, listing.IDsOf(saved), listing.IDsOf(contacted)), nil
}

func (g *ReconcilerRegistry) dropLocked(sessionID string) {
	delete(g.bySession, sessionID)
	delete(g.lastUsed, sessionID)
}

// pruneLocked drops reconcilers whose sessions expired without a logout.
func (g *ReconcilerRegistry) pruneLocked() int {
	now := g.deps.Now()
	pruned := 0
	for id, r := range g.bySession {
		if !r.session.Valid(now) {
			g.dropLocked(id)
			pruned++
		}
	}
	return pruned
}

// PruneExpired drops reconcilers whose sessions have expired and reports how many went.
func (g *ReconcilerRegistry) PruneExpired() int {
	g.mu.Lock()
	pruned := g.pruneLocked()
	n := len(g.bySession)
	g.mu.Unlock()
	if pruned > 0 {
		g.deps.Metrics.ActiveReconcilers(n)
	}
	return pruned
}

// EvictIdle drops reconcilers that have not been used for maxIdle. The next request from
// that session hydrates a fresh one from the backend.
func (g *ReconcilerRegistry) EvictIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := g.deps.Now().Add(-maxIdle)

	g.mu.Lock()
	evicted := 0
	for id, used := range g.lastUsed {
		if used.Before(cutoff) {
			g.dropLocked(id)
			evicted++
		}
	}
	n := len(g.bySession)
	g.mu.Unlock()
	if evicted > 0 {
		g.deps.Metrics.ActiveReconcilers(n)
	}
	return evicted
}

// Evict drops the cached reconciler for sessionID.
func (g *ReconcilerRegistry) Evict(sessionID string) {
	g.mu.Lock()
	_, ok := g.bySession[sessionID]
	g.dropLocked(sessionID)
	n := len(g.bySession)
	g.mu.Unlock()
	if ok {
		g.deps.Metrics.ActiveReconcilers(n)
	}
}

// Len reports how many reconcilers are cached.
func (g *ReconcilerRegistry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.bySession)
}

// Close stops listening for session events and waits for the listener to exit.
func (g *ReconcilerRegistry) Close() {
	g.stopOnce.Do(func() {
		if g.unsub != nil {
			g.unsub()
		}
		<-g.done
	})
}
