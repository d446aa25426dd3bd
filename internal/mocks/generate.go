// Package mocks provides mock implementations of the backend gateway ports.
//
// The mocks are generated with go.uber.org/mock (gomock) and give tests a fluent API for
// setting up expectations against the marketplace backend without running one.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	buyer := mocks.NewMockBuyerGateway(ctrl)
//	buyer.EXPECT().SaveListing(gomock.Any(), "token", listing.ID("42")).Return(nil)
package mocks

// AuthGateway: Login, Register, ForgotPassword, ResetPassword
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_gateway_mock.go github.com/ecoworth/marketplace-web/internal/ports AuthGateway

// ListingGateway: List, ListMine, Create, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=listing_gateway_mock.go github.com/ecoworth/marketplace-web/internal/ports ListingGateway

// BuyerGateway: SavedListings, SaveListing, UnsaveListing, ContactedListings, MarkContacted
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=buyer_gateway_mock.go github.com/ecoworth/marketplace-web/internal/ports BuyerGateway

// AdminGateway: Stats, Users, SetUserStatus, DeleteUser, PendingSubscriptions, ApproveSubscription, RejectSubscription
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=admin_gateway_mock.go github.com/ecoworth/marketplace-web/internal/ports AdminGateway

// SubscriptionGateway: Status, History, Purchase
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=subscription_gateway_mock.go github.com/ecoworth/marketplace-web/internal/ports SubscriptionGateway
