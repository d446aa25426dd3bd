package backend

import (
	"context"
	"net/http"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

// Status returns the user's current licence status. A 404 means no request was ever made.
func (cl *Client) Status(ctx context.Context, token string) (account.SubscriptionState, error) {
	body, err := cl.do(ctx, call{method: http.MethodGet, path: "/subscriptions/status", token: token})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return account.SubscriptionState{Status: account.SubscriptionNone}, nil
		}
		return account.SubscriptionState{}, err
	}

	var st account.SubscriptionState
	if err := decodeJSON(body, &st); err != nil {
		return account.SubscriptionState{}, err
	}
	st.Status = st.Status.Normalize()
	return st, nil
}

// History returns the user's past licence requests.
func (cl *Client) History(ctx context.Context, token string) ([]account.Subscription, error) {
	body, err := cl.do(ctx, call{method: http.MethodGet, path: "/subscriptions/history", token: token})
	if err != nil {
		return nil, err
	}
	out := []account.Subscription{}
	if err := decodeCollection(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purchase submits a licence request for admin approval.
func (cl *Client) Purchase(ctx context.Context, token string, req account.PurchaseRequest) (account.Subscription, error) {
	body, err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/subscriptions/purchase",
		token:  token,
		json:   req,
	})
	if err != nil {
		return account.Subscription{}, err
	}

	sub := account.Subscription{
		PlanType:      req.PlanType,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Status:        account.SubscriptionPending,
	}
	if err := decodeJSON(body, &sub); err != nil {
		return account.Subscription{}, err
	}
	sub.Status = sub.Status.Normalize()
	return sub, nil
}
