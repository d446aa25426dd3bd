package ports

import (
	"context"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

// ListingGateway reads and writes listings. Methods taking a token act as that user.
type ListingGateway interface {
	List(ctx context.Context) ([]listing.Listing, error)
	ListMine(ctx context.Context, token string) ([]listing.Listing, error)
	Create(ctx context.Context, token string, req listing.CreateRequest) (listing.Listing, error)
	Update(ctx context.Context, token string, id listing.ID, req listing.UpdateRequest) (listing.Listing, error)
	Delete(ctx context.Context, token string, id listing.ID) error
}

// BuyerGateway manages a buyer's saved and contacted listings.
type BuyerGateway interface {
	SavedListings(ctx context.Context, token string) ([]listing.Listing, error)
	SaveListing(ctx context.Context, token string, id listing.ID) error
	UnsaveListing(ctx context.Context, token string, id listing.ID) error
	ContactedListings(ctx context.Context, token string) ([]listing.Listing, error)
	MarkContacted(ctx context.Context, token string, id listing.ID) error
}

// AdminGateway exposes the moderation endpoints.
type AdminGateway interface {
	Stats(ctx context.Context, token string) (account.Stats, error)
	Users(ctx context.Context, token string) ([]account.User, error)
	SetUserStatus(ctx context.Context, token string, id account.ID, status account.UserStatus) error
	DeleteUser(ctx context.Context, token string, id account.ID) error
	PendingSubscriptions(ctx context.Context, token string) ([]account.Subscription, error)
	ApproveSubscription(ctx context.Context, token string, id account.ID) error
	RejectSubscription(ctx context.Context, token string, id account.ID) error
}

// SubscriptionGateway manages desktop licence requests.
type SubscriptionGateway interface {
	Status(ctx context.Context, token string) (account.SubscriptionState, error)
	History(ctx context.Context, token string) ([]account.Subscription, error)
	Purchase(ctx context.Context, token string, req account.PurchaseRequest) (account.Subscription, error)
}
