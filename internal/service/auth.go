package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

const (
	// MinPasswordLength is the shortest password accepted at signup and reset.
	MinPasswordLength  = 6
	defaultSessionTTL  = 24 * time.Hour
	loginFailedMessage = "Invalid email or password."
)

// AuthServiceConfig holds tunables for AuthService.
type AuthServiceConfig struct {
	// SessionTTL applies when the backend token carries no exp claim.
	SessionTTL time.Duration
	Logger     *slog.Logger
	Metrics    *metrics.Marketplace
	Now        func() time.Time
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Gateway  ports.AuthGateway
	Sessions ports.SessionStore
	Events   *SessionEvents
	Config   AuthServiceConfig
}

// AuthService owns the session lifecycle: sessions are created only by Login and
// Register and destroyed only by Logout or expiry.
type AuthService struct {
	gateway  ports.AuthGateway
	sessions ports.SessionStore
	events   *SessionEvents
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *metrics.Marketplace
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Gateway == nil {
		panic("auth service: gateway is required")
	}
	if opts.Sessions == nil {
		panic("auth service: session store is required")
	}

	ttl := opts.Config.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		gateway:  opts.Gateway,
		sessions: opts.Sessions,
		events:   opts.Events,
		ttl:      ttl,
		logger:   logger.With("component", "auth_service"),
		metrics:  opts.Config.Metrics,
		now:      now,
	}
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates against the backend and persists a new session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domainauth.Session, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, apperrors.ValidationField("password", "Password is required.")
	}

	grant, err := s.gateway.Login(ctx, ports.Credentials{Email: email, Password: in.Password})
	if err != nil {
		s.metrics.AuthEvent("login", "", err)
		if apperrors.IsUnauthenticated(err) {
			return nil, apperrors.Unauthenticated(apperrors.Message(err, loginFailedMessage))
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	sess, err := s.startSession(ctx, grant, email)
	s.metrics.AuthEvent("login", grant.Role, err)
	if err != nil {
		return nil, err
	}

	s.events.Publish(SessionEvent{Kind: SessionLogin, SessionID: sess.ID, Role: sess.Role})
	s.logger.InfoContext(ctx, "user logged in", "session_id", sess.ID, "role", sess.Role)
	return sess, nil
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            string
}

// RegisterResult reports the outcome of a signup. Session is nil when the backend did not
// authenticate the new account and the user must log in.
type RegisterResult struct {
	Role    domainauth.Role
	Session *domainauth.Session
}

// Register validates the signup form, creates the account and, when the backend returns a token, a session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	reg, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}

	res, err := s.gateway.Register(ctx, reg)
	if err != nil {
		s.metrics.AuthEvent("register", domainauth.Role(reg.Role), err)
		return nil, fmt.Errorf("register: %w", err)
	}

	out := &RegisterResult{Role: res.Role}
	if res.Grant != nil {
		grant := *res.Grant
		if grant.Name == "" {
			grant.Name = reg.Name
		}
		if !grant.Role.Valid() {
			grant.Role = res.Role
		}
		sess, err := s.startSession(ctx, grant, reg.Email)
		if err != nil {
			s.metrics.AuthEvent("register", res.Role, err)
			return nil, err
		}
		out.Session = sess
		s.events.Publish(SessionEvent{Kind: SessionRegister, SessionID: sess.ID, Role: sess.Role})
	}

	s.metrics.AuthEvent("register", res.Role, nil)
	s.logger.InfoContext(ctx, "user registered", "role", res.Role, "auto_login", out.Session != nil)
	return out, nil
}

func (s *AuthService) startSession(ctx context.Context, grant ports.Grant, email string) (*domainauth.Session, error) {
	role, ok := domainauth.ParseRole(string(grant.Role))
	if !ok {
		return nil, apperrors.Backend(0, "The marketplace returned an unknown account role.", fmt.Errorf("role %q", grant.Role))
	}

	now := s.now()
	expires := grant.ExpiresAt
	if expires.IsZero() {
		expires = now.Add(s.ttl)
	}
	if !expires.After(now) {
		return nil, apperrors.Unauthenticated("Your session has expired. Please log in again.")
	}

	sess := domainauth.Session{
		ID:        generateSessionID(),
		Token:     grant.AccessToken,
		Role:      role,
		Name:      grant.Name,
		Email:     email,
		ExpiresAt: expires,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// GetSession returns the live session for id. Missing or expired sessions are Unauthenticated;
// a store that cannot answer yields an Internal error and the session is left alone.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.Unauthenticated("Please log in to continue.")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "Please log in to continue.")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Sessions are temporarily unavailable.")
	}

	if !sess.Valid(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			s.logger.WarnContext(ctx, "delete stale session", "error", deleteErr)
		}
		return nil, apperrors.Unauthenticated("Your session has expired. Please log in again.")
	}

	return &sess, nil
}

// Logout removes a session and notifies subscribers. Logging out an unknown session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	var role domainauth.Role
	if sess, err := s.sessions.Get(ctx, sessionID); err == nil {
		role = sess.Role
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.metrics.AuthEvent("logout", role, err)
		return fmt.Errorf("delete session: %w", err)
	}

	s.events.Publish(SessionEvent{Kind: SessionLogout, SessionID: sessionID, Role: role})
	s.metrics.AuthEvent("logout", role, nil)
	return nil
}

// ForgotPassword asks the backend to issue a reset code for email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (ports.ResetCodeResult, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return ports.ResetCodeResult{}, err
	}
	res, err := s.gateway.ForgotPassword(ctx, email)
	if err != nil {
		return ports.ResetCodeResult{}, fmt.Errorf("forgot password: %w", err)
	}
	return res, nil
}

// ResetInput carries the reset-password form.
type ResetInput struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// ResetPassword validates the form and sets a new password using the emailed code.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetInput) error {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return err
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return apperrors.ValidationField("code", "Reset code is required.")
	}
	if err := validatePassword(in.NewPassword, in.ConfirmPassword, "new_password"); err != nil {
		return err
	}

	if err := s.gateway.ResetPassword(ctx, ports.PasswordReset{Email: email, Code: code, NewPassword: in.NewPassword}); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func validateRegistration(in RegisterInput) (ports.Registration, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ports.Registration{}, apperrors.ValidationField("name", "Name is required.")
	}
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return ports.Registration{}, err
	}
	role, ok := domainauth.ParseRole(in.Role)
	if !ok || role == domainauth.RoleAdmin {
		return ports.Registration{}, apperrors.ValidationField("role", "Choose whether you are a buyer or a seller.")
	}
	if err := validatePassword(in.Password, in.ConfirmPassword, "password"); err != nil {
		return ports.Registration{}, err
	}
	return ports.Registration{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Password: in.Password,
		Role:     string(role),
	}, nil
}

func validatePassword(password, confirm, field string) error {
	if len([]rune(password)) < MinPasswordLength {
		return apperrors.ValidationField(field, fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
	}
	if password != confirm {
		return apperrors.ValidationField("confirm_password", "Passwords do not match.")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.ValidationField("email", "Email is required.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.ValidationField("email", "Enter a valid email address.")
	}
	return nil
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.New().String()
}
