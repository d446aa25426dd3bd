// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthGateway  = (*StubAuthGateway)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// StubAuthGateway simulates the backend's auth endpoints with deterministic tokens.
// Accounts maps an email to its password and role; unknown emails fail to log in.
type StubAuthGateway struct {
	LoginFunc    func(ctx context.Context, creds ports.Credentials) (ports.Grant, error)
	RegisterFunc func(ctx context.Context, reg ports.Registration) (ports.RegistrationResult, error)

	Accounts  map[string]StubAccount
	ResetCode string
	TokenTTL  time.Duration

	mu        sync.Mutex
	callCount int
}

// StubAccount is one known login for StubAuthGateway.
type StubAccount struct {
	Password string
	Role     domainauth.Role
	Name     string
}

// ErrInvalidCredentials is returned by StubAuthGateway for unknown logins.
var ErrInvalidCredentials = apperrors.Unauthenticated("Invalid email or password.")

// NewStubAuthGateway creates a StubAuthGateway with one account per role.
func NewStubAuthGateway() *StubAuthGateway {
	return &StubAuthGateway{
		Accounts: map[string]StubAccount{
			"admin@example.com":  {Password: "secret1", Role: domainauth.RoleAdmin, Name: "Admin"},
			"seller@example.com": {Password: "secret1", Role: domainauth.RoleSeller, Name: "Seller"},
			"buyer@example.com":  {Password: "secret1", Role: domainauth.RoleBuyer, Name: "Buyer"},
		},
		ResetCode: "123456",
		TokenTTL:  time.Hour,
	}
}

func (s *StubAuthGateway) Login(ctx context.Context, creds ports.Credentials) (ports.Grant, error) {
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.Accounts[strings.ToLower(creds.Email)]
	if !ok || acct.Password != creds.Password {
		return ports.Grant{}, ErrInvalidCredentials
	}
	s.callCount++
	return ports.Grant{
		AccessToken: fmt.Sprintf("token-%d", s.callCount),
		Role:        acct.Role,
		Name:        acct.Name,
		ExpiresAt:   time.Now().Add(s.ttl()),
	}, nil
}

func (s *StubAuthGateway) Register(ctx context.Context, reg ports.Registration) (ports.RegistrationResult, error) {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, reg)
	}

	role, ok := domainauth.ParseRole(reg.Role)
	if !ok {
		return ports.RegistrationResult{}, fmt.Errorf("unknown role %q", reg.Role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Accounts == nil {
		s.Accounts = make(map[string]StubAccount)
	}
	email := strings.ToLower(reg.Email)
	if _, exists := s.Accounts[email]; exists {
		return ports.RegistrationResult{}, errors.New("email already registered")
	}
	s.Accounts[email] = StubAccount{Password: reg.Password, Role: role, Name: reg.Name}
	return ports.RegistrationResult{Role: role}, nil
}

func (s *StubAuthGateway) ForgotPassword(_ context.Context, email string) (ports.ResetCodeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Accounts[strings.ToLower(email)]; !ok {
		return ports.ResetCodeResult{Message: "If the email exists, a code was sent."}, nil
	}
	return ports.ResetCodeResult{Message: "Reset code sent.", Code: s.ResetCode}, nil
}

func (s *StubAuthGateway) ResetPassword(_ context.Context, in ports.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(in.Email)
	acct, ok := s.Accounts[email]
	if !ok || in.Code != s.ResetCode {
		return errors.New("invalid reset code")
	}
	acct.Password = in.NewPassword
	s.Accounts[email] = acct
	return nil
}

func (s *StubAuthGateway) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return time.Hour
	}
	return s.TokenTTL
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ErrNotFound is returned by MemorySessionStore for unknown ids.
var ErrNotFound = ports.ErrSessionNotFound
