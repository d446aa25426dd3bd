package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

// Listing actions used for metrics and logging.
const (
	ActionSave    = "save"
	ActionUnsave  = "unsave"
	ActionContact = "contact"
)

// ReconcilerDeps are the collaborators shared by every ListingReconciler.
type ReconcilerDeps struct {
	Buyer   ports.BuyerGateway
	Logger  *slog.Logger
	Metrics *metrics.Marketplace
	Now     func() time.Time
	// HydrateTimeout bounds the initial load of saved and contacted ids. Defaults to 30s.
	HydrateTimeout time.Duration
}

const defaultHydrateTimeout = 30 * time.Second

func (d ReconcilerDeps) withDefaults() ReconcilerDeps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.HydrateTimeout <= 0 {
		d.HydrateTimeout = defaultHydrateTimeout
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// ListingReconciler tracks one session's saved and contacted listings and keeps them
// consistent with the backend. Local sets change only after the backend acknowledges a
// mutation, so a failed call leaves them exactly as they were.
//
// The reconciler is the single writer of both sets; readers receive copies.
type ListingReconciler struct {
	deps    ReconcilerDeps
	session domainauth.Session

	mu         sync.Mutex
	saved      listing.IDSet
	contacted  listing.IDSet
	saving     map[listing.ID]struct{}
	contacting map[listing.ID]struct{}
}

// NewListingReconciler builds a reconciler seeded with the given sets.
func NewListingReconciler(deps ReconcilerDeps, sess domainauth.Session, saved, contacted []listing.ID) *ListingReconciler {
	if deps.Buyer == nil {
		panic("listing reconciler: buyer gateway is required")
	}
	return &ListingReconciler{
		deps:       deps.withDefaults(),
		session:    sess,
		saved:      listing.NewIDSet(saved...),
		contacted:  listing.NewIDSet(contacted...),
		saving:     make(map[listing.ID]struct{}),
		contacting: make(map[listing.ID]struct{}),
	}
}

// SaveResult reports the saved state after a successful toggle.
type SaveResult struct {
	ID    listing.ID
	Saved bool
}

// ToggleSave saves an unsaved listing or unsaves a saved one.
// At most one save/unsave per listing may be outstanding; a concurrent toggle for the same
// id fails with InFlight without calling the backend.
func (r *ListingReconciler) ToggleSave(ctx context.Context, id listing.ID) (SaveResult, error) {
	return r.setSaved(ctx, id, nil)
}

// Save marks id as saved. Saving an already saved listing succeeds without a backend call.
func (r *ListingReconciler) Save(ctx context.Context, id listing.ID) (SaveResult, error) {
	want := true
	return r.setSaved(ctx, id, &want)
}

// Unsave removes id from the saved set. Unsaving a listing that is not saved succeeds without a backend call.
func (r *ListingReconciler) Unsave(ctx context.Context, id listing.ID) (SaveResult, error) {
	want := false
	return r.setSaved(ctx, id, &want)
}

// setSaved drives the saved flag of id to *want, or flips it when want is nil.
func (r *ListingReconciler) setSaved(ctx context.Context, id listing.ID, want *bool) (SaveResult, error) {
	if err := r.authenticated(); err != nil {
		return SaveResult{}, err
	}
	if id.Empty() {
		return SaveResult{}, apperrors.ValidationField("id", "Listing id is required.")
	}

	r.mu.Lock()
	if _, busy := r.saving[id]; busy {
		r.mu.Unlock()
		r.deps.Metrics.ListingAction(ActionSave, metrics.ResultNoop, apperrors.InFlight(""))
		return SaveResult{}, apperrors.InFlight("Still saving this listing. Please wait.")
	}
	wasSaved := r.saved.Has(id)
	if want != nil && *want == wasSaved {
		r.mu.Unlock()
		r.deps.Metrics.ListingAction(saveAction(wasSaved), metrics.ResultNoop, nil)
		return SaveResult{ID: id, Saved: wasSaved}, nil
	}
	r.saving[id] = struct{}{}
	r.mu.Unlock()

	action := saveAction(!wasSaved)
	var err error
	if wasSaved {
		err = r.deps.Buyer.UnsaveListing(ctx, r.session.Token, id)
	} else {
		err = r.deps.Buyer.SaveListing(ctx, r.session.Token, id)
	}

	r.mu.Lock()
	delete(r.saving, id)
	if err == nil {
		if wasSaved {
			r.saved.Remove(id)
		} else {
			r.saved.Add(id)
		}
	}
	saved := r.saved.Has(id)
	r.mu.Unlock()

	if err != nil {
		r.deps.Metrics.ListingAction(action, metrics.ResultError, err)
		r.deps.Logger.WarnContext(ctx, "listing save toggle failed",
			"action", action, "listing_id", id, "session_id", r.session.ID, "error", err)
		return SaveResult{ID: id, Saved: saved}, actionError(err, "Failed to update saved listings. Please try again.")
	}

	r.deps.Metrics.ListingAction(action, metrics.ResultSuccess, nil)
	return SaveResult{ID: id, Saved: saved}, nil
}

func saveAction(save bool) string {
	if save {
		return ActionSave
	}
	return ActionUnsave
}

// ContactResult reports whether a contact reveal reached the backend.
type ContactResult struct {
	ID listing.ID
	// AlreadyContacted is true when the listing was contacted before and no call was made.
	AlreadyContacted bool
}

// RevealContact unlocks a seller's contact details. Contacting an already contacted
// listing is a no-op; no operation ever removes a listing from the contacted set.
func (r *ListingReconciler) RevealContact(ctx context.Context, id listing.ID) (ContactResult, error) {
	if err := r.authenticated(); err != nil {
		return ContactResult{}, err
	}
	if id.Empty() {
		return ContactResult{}, apperrors.ValidationField("id", "Listing id is required.")
	}

	r.mu.Lock()
	if r.contacted.Has(id) {
		r.mu.Unlock()
		r.deps.Metrics.ListingAction(ActionContact, metrics.ResultNoop, nil)
		return ContactResult{ID: id, AlreadyContacted: true}, nil
	}
	if _, busy := r.contacting[id]; busy {
		r.mu.Unlock()
		return ContactResult{}, apperrors.InFlight("Already requesting seller details. Please wait.")
	}
	r.contacting[id] = struct{}{}
	r.mu.Unlock()

	err := r.deps.Buyer.MarkContacted(ctx, r.session.Token, id)

	r.mu.Lock()
	delete(r.contacting, id)
	if err == nil {
		r.contacted.Add(id)
	}
	r.mu.Unlock()

	if err != nil {
		r.deps.Metrics.ListingAction(ActionContact, metrics.ResultError, err)
		r.deps.Logger.WarnContext(ctx, "contact reveal failed", "listing_id", id, "session_id", r.session.ID, "error", err)
		return ContactResult{ID: id}, actionError(err, "Failed to get seller details. Please try again.")
	}

	r.deps.Metrics.ListingAction(ActionContact, metrics.ResultSuccess, nil)
	return ContactResult{ID: id}, nil
}

// Saved returns a copy of the saved set.
func (r *ListingReconciler) Saved() listing.IDSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved.Clone()
}

// Contacted returns a copy of the contacted set.
func (r *ListingReconciler) Contacted() listing.IDSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contacted.Clone()
}

// IsSaved reports whether id is saved.
func (r *ListingReconciler) IsSaved(id listing.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved.Has(id)
}

// IsContacted reports whether id is contacted.
func (r *ListingReconciler) IsContacted(id listing.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contacted.Has(id)
}

// SessionID returns the owning session id.
func (r *ListingReconciler) SessionID() string { return r.session.ID }

// Card renders l for this reconciler's user.
func (r *ListingReconciler) Card(l listing.Listing) listing.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return l.View(r.saved.Has(l.ID), r.contacted.Has(l.ID))
}

// Cards renders listings for this reconciler's user.
func (r *ListingReconciler) Cards(ls []listing.Listing) []listing.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return listing.Cards(ls, r.saved, r.contacted)
}

func (r *ListingReconciler) authenticated() error {
	if !r.session.Valid(r.deps.Now()) {
		return apperrors.Unauthenticated("Please log in to continue.")
	}
	return nil
}

// actionError keeps auth and timeout errors intact and reports everything else as a backend failure.
func actionError(err error, message string) error {
	err = apperrors.FromContext(err, "The marketplace did not respond in time. Please try again.")
	switch {
	case apperrors.IsUnauthenticated(err), apperrors.IsTimeout(err), apperrors.IsBackend(err), apperrors.IsUnauthorized(err):
		return err
	default:
		return apperrors.Backend(0, message, err)
	}
}
