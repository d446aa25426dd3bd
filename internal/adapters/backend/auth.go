package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Name        string `json:"name"`
}

func (cl *Client) grantFrom(tr tokenResponse) (ports.Grant, error) {
	token := strings.TrimSpace(tr.AccessToken)
	if token == "" {
		return ports.Grant{}, apperrors.Backend(0, "The marketplace did not return an access token.", nil)
	}
	return ports.Grant{
		AccessToken: token,
		Role:        domainauth.NormalizeRole(domainauth.Role(tr.Role)),
		Name:        strings.TrimSpace(tr.Name),
		ExpiresAt:   tokenExpiry(token),
	}, nil
}

// Login exchanges form-encoded credentials for an access token.
func (cl *Client) Login(ctx context.Context, creds ports.Credentials) (ports.Grant, error) {
	body, err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		form: url.Values{
			"username": {creds.Email},
			"password": {creds.Password},
		},
	})
	if err != nil {
		if apperrors.IsUnauthenticated(err) {
			return ports.Grant{}, apperrors.Unauthenticated(apperrors.Message(err, "Invalid email or password."))
		}
		return ports.Grant{}, err
	}

	var tr tokenResponse
	if err := decodeJSON(body, &tr); err != nil {
		return ports.Grant{}, err
	}
	return cl.grantFrom(tr)
}

// Register creates an account. When the backend answers with a token the grant is populated.
func (cl *Client) Register(ctx context.Context, reg ports.Registration) (ports.RegistrationResult, error) {
	body, err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/register",
		json:   reg,
	})
	if err != nil {
		return ports.RegistrationResult{}, err
	}

	var resp struct {
		tokenResponse
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return ports.RegistrationResult{}, err
	}
	if resp.Success != nil && !*resp.Success {
		return ports.RegistrationResult{}, apperrors.Backend(http.StatusOK, fallbackString(resp.Message, "Registration failed."), nil)
	}

	role := domainauth.NormalizeRole(domainauth.Role(fallbackString(resp.Role, reg.Role)))
	out := ports.RegistrationResult{Role: role}
	if strings.TrimSpace(resp.AccessToken) != "" {
		if resp.Role == "" {
			resp.Role = string(role)
		}
		if resp.Name == "" {
			resp.Name = reg.Name
		}
		grant, err := cl.grantFrom(resp.tokenResponse)
		if err != nil {
			return ports.RegistrationResult{}, err
		}
		out.Grant = &grant
	}
	return out, nil
}

// ForgotPassword asks the backend to issue a reset code.
func (cl *Client) ForgotPassword(ctx context.Context, email string) (ports.ResetCodeResult, error) {
	body, err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		json:   map[string]string{"email": email},
	})
	if err != nil {
		return ports.ResetCodeResult{}, err
	}

	var resp struct {
		Message   string `json:"message"`
		ResetCode string `json:"reset_code"`
	}
	if err := decodeJSON(body, &resp); err != nil {
		return ports.ResetCodeResult{}, err
	}
	return ports.ResetCodeResult{Message: resp.Message, Code: resp.ResetCode}, nil
}

// ResetPassword sets a new password using a reset code.
func (cl *Client) ResetPassword(ctx context.Context, in ports.PasswordReset) error {
	_, err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/reset-password",
		json:   in,
	})
	return err
}
