package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/mocks"
	"github.com/ecoworth/marketplace-web/internal/testutil"
)

type listingFixture struct {
	svc      *ListingService
	listings *mocks.MockListingGateway
	buyer    *mocks.MockBuyerGateway
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &listingFixture{
		listings: mocks.NewMockListingGateway(ctrl),
		buyer:    mocks.NewMockBuyerGateway(ctrl),
	}
	reg := NewReconcilerRegistry(ReconcilerDeps{Buyer: f.buyer}, nil)
	t.Cleanup(reg.Close)
	f.svc = NewListingService(ListingServiceOptions{Listings: f.listings, Reconcilers: reg})
	return f
}

func marketFixture() []listing.Listing {
	return []listing.Listing{
		testutil.NewListing("1").WithCategory(listing.CategoryPET).WithPrice(50).Build(),
		testutil.NewListing("2").WithCategory(listing.CategoryHDPE).WithPrice(250).Build(),
		testutil.NewListing("3").WithCategory(listing.CategoryPET).WithPrice(1200).WithLocation("Kerala", "Kochi").Build(),
	}
}

func TestListingService_Browse(t *testing.T) {
	f := newListingFixture(t)
	f.listings.EXPECT().List(gomock.Any()).Return(marketFixture(), nil)

	got, counts, err := f.svc.Browse(context.Background(), listing.Filter{Category: "pet"})
	require.NoError(t, err)
	assert.Equal(t, []listing.ID{"1", "3"}, listing.IDsOf(got))
	require.NotEmpty(t, counts)
	assert.Equal(t, listing.CategoryCount{Category: listing.CategoryPET, Count: 2}, counts[0])
}

func TestListingService_Browse_BackendError(t *testing.T) {
	f := newListingFixture(t)
	f.listings.EXPECT().List(gomock.Any()).Return(nil, apperrors.Backend(503, "down", nil))

	_, _, err := f.svc.Browse(context.Background(), listing.Filter{})
	require.Error(t, err)
	assert.True(t, apperrors.IsBackend(err))
}

func TestListingService_Find(t *testing.T) {
	f := newListingFixture(t)
	f.listings.EXPECT().List(gomock.Any()).Return(marketFixture(), nil).Times(2)

	got, err := f.svc.Find(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, listing.CategoryHDPE, got.Category)

	_, err = f.svc.Find(context.Background(), "99")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListingService_Latest(t *testing.T) {
	f := newListingFixture(t)
	older := testutil.TestTime()
	newer := older.Add(time.Hour)

	a := testutil.NewListing("a").Build()
	a.CreatedAt = &older
	b := testutil.NewListing("b").Build()
	b.CreatedAt = &newer
	f.listings.EXPECT().List(gomock.Any()).Return([]listing.Listing{a, b, testutil.NewListing("c").Build()}, nil)

	got, err := f.svc.Latest(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []listing.ID{"b", "a"}, listing.IDsOf(got))
}

func TestListingService_BuyerDashboard(t *testing.T) {
	f := newListingFixture(t)
	sess := testutil.NewSession().Ptr()

	f.listings.EXPECT().List(gomock.Any()).Return(marketFixture(), nil)
	f.buyer.EXPECT().SavedListings(gomock.Any(), sess.Token).Return(testutil.Listings("2"), nil)
	f.buyer.EXPECT().ContactedListings(gomock.Any(), sess.Token).Return(testutil.Listings("3"), nil)

	view, err := f.svc.BuyerDashboard(context.Background(), sess, listing.Filter{Price: listing.ParsePriceRange("1000+")})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Total)

	require.Len(t, view.Results, 1)
	assert.Equal(t, listing.ID("3"), view.Results[0].ID)
	assert.True(t, view.Results[0].Contacted)
	assert.False(t, view.Results[0].Masked)

	require.Len(t, view.Saved, 1)
	assert.True(t, view.Saved[0].Saved)
	assert.True(t, view.Saved[0].Masked)
	require.Len(t, view.Contacted, 1)
}

func TestListingService_BuyerDashboard_RoleChecks(t *testing.T) {
	f := newListingFixture(t)

	_, err := f.svc.BuyerDashboard(context.Background(), nil, listing.Filter{})
	assert.True(t, apperrors.IsUnauthenticated(err))

	seller := testutil.SellerSession()
	_, err = f.svc.BuyerDashboard(context.Background(), &seller, listing.Filter{})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestListingService_MarketCards(t *testing.T) {
	f := newListingFixture(t)
	ls := marketFixture()

	cards := f.svc.MarketCards(context.Background(), nil, ls)
	for _, c := range cards {
		assert.True(t, c.Masked)
		assert.False(t, c.Saved)
	}

	sess := testutil.NewSession().Ptr()
	f.buyer.EXPECT().SavedListings(gomock.Any(), gomock.Any()).Return(testutil.Listings("1"), nil)
	f.buyer.EXPECT().ContactedListings(gomock.Any(), gomock.Any()).Return(nil, nil)

	cards = f.svc.MarketCards(context.Background(), sess, ls)
	assert.True(t, cards[0].Saved)
	assert.False(t, cards[1].Saved)
}

func TestListingService_MarketCards_HydrationFailureFallsBack(t *testing.T) {
	f := newListingFixture(t)
	f.buyer.EXPECT().SavedListings(gomock.Any(), gomock.Any()).Return(nil, apperrors.Backend(500, "x", nil))
	f.buyer.EXPECT().ContactedListings(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	cards := f.svc.MarketCards(context.Background(), testutil.NewSession().Ptr(), marketFixture())
	require.Len(t, cards, 3)
	assert.True(t, cards[0].Masked)
}

func TestListingService_SellerListings(t *testing.T) {
	f := newListingFixture(t)
	sess := testutil.SellerSession()
	mine := []listing.Listing{
		testutil.NewListing("1").Build(),
		testutil.NewListing("2").WithStatus(listing.StatusSold).WithCategory(listing.CategoryPP).Build(),
	}
	f.listings.EXPECT().ListMine(gomock.Any(), sess.Token).Return(mine, nil)

	view, err := f.svc.SellerListings(context.Background(), &sess)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Active)
	assert.Equal(t, 1, view.Sold)
	assert.Len(t, view.ByCategory[listing.CategoryPP], 1)
}

func TestListingService_Create(t *testing.T) {
	f := newListingFixture(t)
	sess := testutil.SellerSession()
	req := listing.CreateRequest{
		Category:      "hdpe",
		Quantity:      decimal.NewFromInt(500),
		PricePerKg:    decimal.RequireFromString("42.5"),
		State:         " Gujarat ",
		City:          "Surat",
		ContactNumber: "9876543210",
	}

	f.listings.EXPECT().Create(gomock.Any(), sess.Token, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, got listing.CreateRequest) (listing.Listing, error) {
			assert.Equal(t, listing.CategoryHDPE, got.Category)
			assert.Equal(t, "Gujarat", got.State)
			return testutil.NewListing("99").WithCategory(got.Category).Build(), nil
		})

	l, err := f.svc.Create(context.Background(), &sess, req)
	require.NoError(t, err)
	assert.Equal(t, listing.ID("99"), l.ID)
}

func TestListingService_Create_ValidationAndRole(t *testing.T) {
	f := newListingFixture(t)
	seller := testutil.SellerSession()

	_, err := f.svc.Create(context.Background(), &seller, listing.CreateRequest{Category: "glass"})
	assert.Equal(t, "category", apperrors.GetField(err))

	buyer := testutil.BuyerSession()
	_, err = f.svc.Create(context.Background(), &buyer, listing.CreateRequest{})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestListingService_UpdateAndDelete(t *testing.T) {
	f := newListingFixture(t)
	admin := testutil.AdminSession()
	sold := listing.StatusSold

	f.listings.EXPECT().Update(gomock.Any(), admin.Token, listing.ID("5"), gomock.Any()).
		Return(testutil.NewListing("5").WithStatus(sold).Build(), nil)
	f.listings.EXPECT().Delete(gomock.Any(), admin.Token, listing.ID("5")).Return(nil)

	l, err := f.svc.Update(context.Background(), &admin, "5", listing.UpdateRequest{Status: &sold})
	require.NoError(t, err)
	assert.True(t, l.Status.Is(listing.StatusSold))

	require.NoError(t, f.svc.Delete(context.Background(), &admin, "5"))

	buyer := testutil.NewSession().WithRole(domainauth.Role("BUYER")).Build()
	assert.True(t, apperrors.IsUnauthorized(f.svc.Delete(context.Background(), &buyer, "5")))
}
