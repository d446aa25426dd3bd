package backend

import (
	"context"
	"net/http"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

// SavedListings returns the buyer's saved listings.
func (cl *Client) SavedListings(ctx context.Context, token string) ([]listing.Listing, error) {
	return cl.listings(ctx, "/users/saved-listings", token)
}

// SaveListing bookmarks a listing for the buyer.
func (cl *Client) SaveListing(ctx context.Context, token string, id listing.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     idPath("/users/save-listing/%s", id.String()),
		endpoint: "/users/save-listing/{id}",
		token:    token,
	})
	return err
}

// UnsaveListing removes a bookmark.
func (cl *Client) UnsaveListing(ctx context.Context, token string, id listing.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodDelete,
		path:     idPath("/users/saved-listings/%s", id.String()),
		endpoint: "/users/saved-listings/{id}",
		token:    token,
	})
	return err
}

// ContactedListings returns the listings whose seller details the buyer has revealed.
func (cl *Client) ContactedListings(ctx context.Context, token string) ([]listing.Listing, error) {
	return cl.listings(ctx, "/users/contacted-listings", token)
}

// MarkContacted records that the buyer revealed a seller's contact details.
func (cl *Client) MarkContacted(ctx context.Context, token string, id listing.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     idPath("/users/contacted-listing/%s", id.String()),
		endpoint: "/users/contacted-listing/{id}",
		token:    token,
	})
	return err
}
