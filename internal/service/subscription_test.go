package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/mocks"
	"github.com/ecoworth/marketplace-web/internal/testutil"
)

func TestSubscriptionService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockSubscriptionGateway(ctrl)
	svc := NewSubscriptionService(gw, nil)
	sess := testutil.SellerSession()

	gw.EXPECT().Status(gomock.Any(), sess.Token).Return(account.SubscriptionState{Status: "Pending", PlanType: "pro"}, nil)
	gw.EXPECT().History(gomock.Any(), sess.Token).Return([]account.Subscription{{ID: "1", PlanType: "pro"}}, nil)

	got, err := svc.Overview(context.Background(), &sess)
	require.NoError(t, err)
	assert.False(t, got.CanRequest)
	assert.Len(t, got.History, 1)
	assert.Len(t, got.Plans, len(account.Plans()))
}

func TestSubscriptionService_Overview_HistoryFailureTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockSubscriptionGateway(ctrl)
	svc := NewSubscriptionService(gw, nil)
	sess := testutil.BuyerSession()

	gw.EXPECT().Status(gomock.Any(), gomock.Any()).Return(account.SubscriptionState{Status: account.SubscriptionNone}, nil)
	gw.EXPECT().History(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	got, err := svc.Overview(context.Background(), &sess)
	require.NoError(t, err)
	assert.True(t, got.CanRequest)
	assert.Empty(t, got.History)
}

func TestSubscriptionService_Overview_AdminRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewSubscriptionService(mocks.NewMockSubscriptionGateway(ctrl), nil)
	admin := testutil.AdminSession()

	_, err := svc.Overview(context.Background(), &admin)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestSubscriptionService_Purchase(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockSubscriptionGateway(ctrl)
	svc := NewSubscriptionService(gw, nil)
	sess := testutil.BuyerSession()

	want := account.PurchaseRequest{PlanType: "pro", PaymentMethod: "upi", TransactionID: "TXN1"}
	gw.EXPECT().Purchase(gomock.Any(), sess.Token, want).
		Return(account.Subscription{ID: "s1", PlanType: "pro", Status: account.SubscriptionPending}, nil)

	sub, err := svc.Purchase(context.Background(), &sess, account.PurchaseRequest{PlanType: " PRO ", PaymentMethod: "UPI", TransactionID: " TXN1 "})
	require.NoError(t, err)
	assert.Equal(t, account.SubscriptionPending, sub.Status)
}

func TestSubscriptionService_Purchase_ValidatesBeforeNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockSubscriptionGateway(ctrl)
	svc := NewSubscriptionService(gw, nil)
	sess := testutil.BuyerSession()

	_, err := svc.Purchase(context.Background(), &sess, account.PurchaseRequest{PlanType: "pro", PaymentMethod: "upi"})
	assert.Equal(t, "transaction_id", apperrors.GetField(err))

	_, err = svc.Purchase(context.Background(), &sess, account.PurchaseRequest{PlanType: "gold"})
	assert.Equal(t, "plan_type", apperrors.GetField(err))
}
