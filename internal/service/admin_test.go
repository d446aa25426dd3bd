package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/mocks"
	"github.com/ecoworth/marketplace-web/internal/testutil"
)

func newAdminFixture(t *testing.T) (*AdminService, *mocks.MockAdminGateway, *mocks.MockListingGateway) {
	t.Helper()
	ctrl := gomock.NewController(t)
	admin := mocks.NewMockAdminGateway(ctrl)
	listings := mocks.NewMockListingGateway(ctrl)
	return NewAdminService(AdminServiceOptions{Admin: admin, Listings: listings}), admin, listings
}

func TestAdminService_Dashboard(t *testing.T) {
	svc, admin, listings := newAdminFixture(t)
	sess := testutil.AdminSession()

	stats := account.Stats{TotalUsers: 10, TotalListings: 4}
	users := []account.User{{ID: "1", Name: "A", Role: domainauth.RoleSeller}}
	pending := []account.Subscription{{ID: "s1", PlanType: "pro", Status: account.SubscriptionPending}}

	admin.EXPECT().Stats(gomock.Any(), sess.Token).Return(stats, nil)
	admin.EXPECT().Users(gomock.Any(), sess.Token).Return(users, nil)
	admin.EXPECT().PendingSubscriptions(gomock.Any(), sess.Token).Return(pending, nil)
	listings.EXPECT().List(gomock.Any()).Return(testutil.Listings("1", "2"), nil)

	got, err := svc.Dashboard(context.Background(), &sess)
	require.NoError(t, err)
	assert.Equal(t, stats, got.Stats)
	assert.False(t, got.StatsDerived)
	assert.Equal(t, users, got.Users)
	assert.Len(t, got.Listings, 2)
	assert.Equal(t, pending, got.Pending)
}

func TestAdminService_Dashboard_DerivesStats(t *testing.T) {
	svc, admin, listings := newAdminFixture(t)
	sess := testutil.AdminSession()

	users := []account.User{
		{ID: "1", Role: "Seller"},
		{ID: "2", Role: domainauth.RoleBuyer},
		{ID: "3", Role: domainauth.RoleBuyer},
	}
	admin.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(account.Stats{}, apperrors.NotFound("no stats"))
	admin.EXPECT().Users(gomock.Any(), gomock.Any()).Return(users, nil)
	admin.EXPECT().PendingSubscriptions(gomock.Any(), gomock.Any()).Return(nil, nil)
	listings.EXPECT().List(gomock.Any()).Return(testutil.Listings("1"), nil)

	got, err := svc.Dashboard(context.Background(), &sess)
	require.NoError(t, err)
	assert.True(t, got.StatsDerived)
	assert.Equal(t, account.Stats{TotalUsers: 3, TotalSellers: 1, TotalBuyers: 2, TotalListings: 1}, got.Stats)
}

func TestAdminService_Dashboard_LoadError(t *testing.T) {
	svc, admin, listings := newAdminFixture(t)
	sess := testutil.AdminSession()

	admin.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(account.Stats{}, nil).AnyTimes()
	admin.EXPECT().Users(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	admin.EXPECT().PendingSubscriptions(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	listings.EXPECT().List(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.Dashboard(context.Background(), &sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list users")
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	ctx := context.Background()
	seller := testutil.SellerSession()

	_, err := svc.Dashboard(ctx, &seller)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.True(t, apperrors.IsUnauthorized(svc.SuspendUser(ctx, &seller, "1")))
	assert.True(t, apperrors.IsUnauthorized(svc.DeleteListing(ctx, &seller, "1")))
	assert.True(t, apperrors.IsUnauthenticated(svc.ApproveSubscription(ctx, nil, "1")))
}

func TestAdminService_Moderation(t *testing.T) {
	svc, admin, listings := newAdminFixture(t)
	ctx := context.Background()
	sess := testutil.AdminSession()

	admin.EXPECT().SetUserStatus(ctx, sess.Token, account.ID("1"), account.UserSuspended).Return(nil)
	admin.EXPECT().SetUserStatus(ctx, sess.Token, account.ID("1"), account.UserActive).Return(nil)
	admin.EXPECT().DeleteUser(ctx, sess.Token, account.ID("2")).Return(nil)
	admin.EXPECT().ApproveSubscription(ctx, sess.Token, account.ID("s1")).Return(nil)
	admin.EXPECT().RejectSubscription(ctx, sess.Token, account.ID("s2")).Return(apperrors.Backend(409, "already decided", nil))
	listings.EXPECT().Delete(ctx, sess.Token, account.ID("9")).Return(nil)

	require.NoError(t, svc.SuspendUser(ctx, &sess, "1"))
	require.NoError(t, svc.ActivateUser(ctx, &sess, "1"))
	require.NoError(t, svc.DeleteUser(ctx, &sess, "2"))
	require.NoError(t, svc.ApproveSubscription(ctx, &sess, "s1"))
	require.NoError(t, svc.DeleteListing(ctx, &sess, "9"))

	err := svc.RejectSubscription(ctx, &sess, "s2")
	require.Error(t, err)
	assert.Equal(t, "already decided", apperrors.Message(err, ""))
}
