package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
)

// Stats returns the platform totals.
func (cl *Client) Stats(ctx context.Context, token string) (account.Stats, error) {
	body, err := cl.do(ctx, call{method: http.MethodGet, path: "/admin/stats", token: token})
	if err != nil {
		return account.Stats{}, err
	}
	var s account.Stats
	if err := decodeJSON(body, &s); err != nil {
		return account.Stats{}, err
	}
	return s, nil
}

// Users returns every account.
func (cl *Client) Users(ctx context.Context, token string) ([]account.User, error) {
	body, err := cl.do(ctx, call{method: http.MethodGet, path: "/admin/users", token: token})
	if err != nil {
		return nil, err
	}
	out := []account.User{}
	if err := decodeCollection(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetUserStatus suspends or re-activates an account.
func (cl *Client) SetUserStatus(ctx context.Context, token string, id account.ID, status account.UserStatus) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     idPath("/admin/users/%s/status", id.String()),
		endpoint: "/admin/users/{id}/status",
		token:    token,
		json:     map[string]string{"status": string(status)},
	})
	return err
}

// DeleteUser removes an account.
func (cl *Client) DeleteUser(ctx context.Context, token string, id account.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodDelete,
		path:     idPath("/admin/users/%s", id.String()),
		endpoint: "/admin/users/{id}",
		token:    token,
	})
	return err
}

// PendingSubscriptions returns licence requests awaiting review.
func (cl *Client) PendingSubscriptions(ctx context.Context, token string) ([]account.Subscription, error) {
	body, err := cl.do(ctx, call{
		method: http.MethodGet,
		path:   "/admin/subscriptions",
		token:  token,
		query:  url.Values{"status": {string(account.SubscriptionPending)}},
	})
	if err != nil {
		return nil, err
	}
	out := []account.Subscription{}
	if err := decodeCollection(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveSubscription grants a licence request.
func (cl *Client) ApproveSubscription(ctx context.Context, token string, id account.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     idPath("/admin/subscriptions/%s/approve", id.String()),
		endpoint: "/admin/subscriptions/{id}/approve",
		token:    token,
	})
	return err
}

// RejectSubscription declines a licence request.
func (cl *Client) RejectSubscription(ctx context.Context, token string, id account.ID) error {
	_, err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     idPath("/admin/subscriptions/%s/reject", id.String()),
		endpoint: "/admin/subscriptions/{id}/reject",
		token:    token,
	})
	return err
}
