// Package ports defines interfaces (hexagonal ports) for session and backend behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get when no live session exists for an id.
// Any other Get error means the store could not answer.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// Credentials are the login form values.
type Credentials struct {
	Email    string
	Password string
}

// Grant is a successful authentication answer from the backend.
type Grant struct {
	AccessToken string
	Role        domainauth.Role
	Name        string
	// ExpiresAt is read from the token when it carries an exp claim; zero otherwise.
	ExpiresAt time.Time
}

// Registration carries the signup form values sent to the backend.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RegistrationResult reports the backend's answer to a signup. Grant is nil unless
// the backend authenticated the new account immediately.
type RegistrationResult struct {
	Role  domainauth.Role
	Grant *Grant
}

// PasswordReset carries the reset form values.
type PasswordReset struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetCodeResult is the backend's answer to a forgot-password request. Code is only
// populated by backends running without outbound email.
type ResetCodeResult struct {
	Message string
	Code    string
}

// AuthGateway authenticates users against the marketplace backend.
type AuthGateway interface {
	Login(ctx context.Context, creds Credentials) (Grant, error)
	Register(ctx context.Context, reg Registration) (RegistrationResult, error)
	ForgotPassword(ctx context.Context, email string) (ResetCodeResult, error)
	ResetPassword(ctx context.Context, in PasswordReset) error
}
