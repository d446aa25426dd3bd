package backend

import (
	"context"
	"net/http"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

// List returns every listing. The endpoint is public.
func (cl *Client) List(ctx context.Context) ([]listing.Listing, error) {
	return cl.listings(ctx, "/listings", "")
}

// ListMine returns the seller's own listings.
func (cl *Client) ListMine(ctx context.Context, token string) ([]listing.Listing, error) {
	return cl.listings(ctx, "/listings/my", token)
}

func (cl *Client) listings(ctx context.Context, path, token string) ([]listing.Listing, error) {
	body, err := cl.do(ctx, call{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return nil, err
	}
	out := []listing.Listing{}
	if err := decodeCollection(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// listingPayload is the wire form of create/update requests; the backend expects numbers as strings.
type listingPayload struct {
	Category      string `json:"category,omitempty"`
	Quantity      string `json:"quantity,omitempty"`
	PricePerKg    string `json:"price_per_kg,omitempty"`
	State         string `json:"state,omitempty"`
	City          string `json:"city,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Create posts a new listing for the seller.
func (cl *Client) Create(ctx context.Context, token string, req listing.CreateRequest) (listing.Listing, error) {
	payload := listingPayload{
		Category:      string(req.Category),
		Quantity:      req.Quantity.String(),
		PricePerKg:    req.PricePerKg.String(),
		State:         req.State,
		City:          req.City,
		ContactNumber: req.ContactNumber,
		Description:   req.Description,
	}
	body, err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/listings/add",
		token:  token,
		json:   payload,
	})
	if err != nil {
		return listing.Listing{}, err
	}
	return decodeListing(body)
}

// Update applies partial changes to a listing.
func (cl *Client) Update(ctx context.Context, token string, id listing.ID, req listing.UpdateRequest) (listing.Listing, error) {
	var payload listingPayload
	if req.Category != nil {
		payload.Category = string(*req.Category)
	}
	if req.Quantity != nil {
		payload.Quantity = req.Quantity.String()
	}
	if req.PricePerKg != nil {
		payload.PricePerKg = req.PricePerKg.String()
	}
	if req.State != nil {
		payload.State = *req.State
	}
	if req.City != nil {
		payload.City = *req.City
	}
	if req.ContactNumber != nil {
		payload.ContactNumber = *req.ContactNumber
	}
	if req.Description != nil {
		payload.Description = *req.Description
	}
	if req.Status != nil {
		payload.Status = string(*req.Status)
	}

	body, err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     idPath("/listings/%s", id.String()),
		endpoint: "/listings/{id}",
		token:    token,
		json:     payload,
	})
	if err != nil {
		return listing.Listing{}, err
	}
	l, err := decodeListing(body)
	if err != nil {
		return listing.Listing{}, err
	}
	if l.ID.Empty() {
		l.ID = id
	}
	return l, nil
}

// Delete removes a listing.
func (cl *Client) Delete(ctx context.Context, token string, id listing.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodDelete,
		path:     idPath("/listings/%s", id.String()),
		endpoint: "/listings/{id}",
		token:    token,
	})
	return err
}

// decodeListing accepts either a bare listing or {"listing": {...}}.
func decodeListing(body []byte) (listing.Listing, error) {
	var wrapped struct {
		Listing *listing.Listing `json:"listing"`
	}
	if err := decodeJSON(body, &wrapped); err == nil && wrapped.Listing != nil {
		return *wrapped.Listing, nil
	}
	var l listing.Listing
	if err := decodeJSON(body, &l); err != nil {
		return listing.Listing{}, err
	}
	return l, nil
}
