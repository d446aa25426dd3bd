package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/mocks"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
	"github.com/ecoworth/marketplace-web/internal/observability/statsd"
	"github.com/ecoworth/marketplace-web/internal/testutil"
)

func newTestReconciler(t *testing.T, saved, contacted []listing.ID) (*ListingReconciler, *mocks.MockBuyerGateway, *statsd.MemorySink) {
	t.Helper()
	ctrl := gomock.NewController(t)
	buyer := mocks.NewMockBuyerGateway(ctrl)
	sink := statsd.NewMemorySink()
	deps := ReconcilerDeps{Buyer: buyer, Metrics: metrics.NewMarketplace(sink)}
	return NewListingReconciler(deps, testutil.BuyerSession(), saved, contacted), buyer, sink
}

func TestListingReconciler_SaveThenUnsave(t *testing.T) {
	ctx := context.Background()
	r, buyer, sink := newTestReconciler(t, nil, nil)

	gomock.InOrder(
		buyer.EXPECT().SaveListing(ctx, "token-test", listing.ID("42")).Return(nil),
		buyer.EXPECT().UnsaveListing(ctx, "token-test", listing.ID("42")).Return(nil),
	)

	res, err := r.ToggleSave(ctx, "42")
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, []listing.ID{"42"}, r.Saved().Slice())

	res, err = r.ToggleSave(ctx, "42")
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Equal(t, 0, r.Saved().Len())

	assert.Equal(t, int64(1), sink.Total("listing.action", map[string]string{"action": ActionSave, "result": metrics.ResultSuccess}))
	assert.Equal(t, int64(1), sink.Total("listing.action", map[string]string{"action": ActionUnsave, "result": metrics.ResultSuccess}))
}

func TestListingReconciler_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r, buyer, _ := newTestReconciler(t, []listing.ID{"42"}, nil)

	buyer.EXPECT().SaveListing(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for range 3 {
		res, err := r.Save(ctx, "42")
		require.NoError(t, err)
		assert.True(t, res.Saved)
	}
	assert.Equal(t, 1, r.Saved().Len())
}

func TestListingReconciler_UnsaveNotSavedIsNoop(t *testing.T) {
	r, buyer, _ := newTestReconciler(t, nil, nil)

	buyer.EXPECT().UnsaveListing(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res, err := r.Unsave(context.Background(), "9")
	require.NoError(t, err)
	assert.False(t, res.Saved)
}

func TestListingReconciler_FailedSaveLeavesSetUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		initial []listing.ID
		expect  func(b *mocks.MockBuyerGateway)
	}{
		{
			name:    "failed save",
			initial: []listing.ID{"1"},
			expect: func(b *mocks.MockBuyerGateway) {
				b.EXPECT().SaveListing(gomock.Any(), gomock.Any(), listing.ID("42")).
					Return(apperrors.Backend(500, "boom", nil))
			},
		},
		{
			name:    "failed unsave",
			initial: []listing.ID{"1", "42"},
			expect: func(b *mocks.MockBuyerGateway) {
				b.EXPECT().UnsaveListing(gomock.Any(), gomock.Any(), listing.ID("42")).
					Return(errors.New("connection reset"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buyer, sink := newTestReconciler(t, tt.initial, nil)
			tt.expect(buyer)
			before := r.Saved().Slice()

			_, err := r.ToggleSave(context.Background(), "42")
			require.Error(t, err)
			assert.True(t, apperrors.IsBackend(err))
			assert.Equal(t, before, r.Saved().Slice())
			assert.Equal(t, int64(1), sink.Total("listing.action", map[string]string{"result": metrics.ResultError}))
		})
	}
}

func TestListingReconciler_ToggleInFlight(t *testing.T) {
	ctx := context.Background()
	r, buyer, _ := newTestReconciler(t, nil, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	buyer.EXPECT().SaveListing(gomock.Any(), "token-test", listing.ID("42")).
		DoAndReturn(func(context.Context, string, listing.ID) error {
			close(started)
			<-release
			return nil
		}).Times(1)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = r.ToggleSave(ctx, "42")
	}()

	<-started
	_, err := r.ToggleSave(ctx, "42")
	require.Error(t, err)
	assert.True(t, apperrors.IsInFlight(err))

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.True(t, r.IsSaved("42"))
}

func TestListingReconciler_RevealContact(t *testing.T) {
	ctx := context.Background()
	r, buyer, _ := newTestReconciler(t, nil, nil)

	buyer.EXPECT().MarkContacted(ctx, "token-test", listing.ID("7")).Return(nil).Times(1)

	seller := testutil.NewListing("7").Build()
	assert.True(t, r.Card(seller).Masked)

	res, err := r.RevealContact(ctx, "7")
	require.NoError(t, err)
	assert.False(t, res.AlreadyContacted)
	assert.Equal(t, []listing.ID{"7"}, r.Contacted().Slice())

	card := r.Card(seller)
	assert.False(t, card.Masked)
	assert.Equal(t, "9876543210", card.ContactNumber)
	assert.Equal(t, "seller@example.com", card.SellerEmail)

	// Second reveal is a no-op without a backend call.
	res, err = r.RevealContact(ctx, "7")
	require.NoError(t, err)
	assert.True(t, res.AlreadyContacted)
	assert.Equal(t, 1, r.Contacted().Len())
}

func TestListingReconciler_ContactedIsMonotonic(t *testing.T) {
	ctx := context.Background()
	r, buyer, _ := newTestReconciler(t, nil, []listing.ID{"7"})

	buyer.EXPECT().MarkContacted(gomock.Any(), gomock.Any(), listing.ID("8")).
		Return(apperrors.Backend(502, "bad gateway", nil))
	buyer.EXPECT().SaveListing(gomock.Any(), gomock.Any(), listing.ID("7")).Return(nil)
	buyer.EXPECT().UnsaveListing(gomock.Any(), gomock.Any(), listing.ID("7")).Return(nil)

	_, err := r.RevealContact(ctx, "8")
	require.Error(t, err)

	_, err = r.ToggleSave(ctx, "7")
	require.NoError(t, err)
	_, err = r.ToggleSave(ctx, "7")
	require.NoError(t, err)

	assert.Equal(t, []listing.ID{"7"}, r.Contacted().Slice())
	assert.False(t, r.IsContacted("8"))
}

func TestListingReconciler_ExpiredSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	buyer := mocks.NewMockBuyerGateway(ctrl)
	sess := testutil.NewSession().ExpiresAt(time.Now().Add(-time.Minute)).Build()
	r := NewListingReconciler(ReconcilerDeps{Buyer: buyer}, sess, nil, nil)

	_, err := r.ToggleSave(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))

	_, err = r.RevealContact(context.Background(), "7")
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.Equal(t, 0, r.Saved().Len())
}

func TestListingReconciler_EmptyID(t *testing.T) {
	r, _, _ := newTestReconciler(t, nil, nil)

	_, err := r.ToggleSave(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListingReconciler_TimeoutPassesThrough(t *testing.T) {
	r, buyer, _ := newTestReconciler(t, nil, nil)
	buyer.EXPECT().SaveListing(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(apperrors.Timeout("slow", context.DeadlineExceeded))

	_, err := r.ToggleSave(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
	assert.False(t, r.IsSaved("42"))
}

func TestListingReconciler_ReadersReturnCopies(t *testing.T) {
	r, _, _ := newTestReconciler(t, []listing.ID{"1"}, nil)

	saved := r.Saved()
	saved.Add("2")
	assert.False(t, r.IsSaved("2"))
}
