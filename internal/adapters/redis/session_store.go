// Package redis provides Redis-based adapters for the marketplace web front end.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecoworth/marketplace-web/internal/cryptoutil"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

// DefaultSessionPrefix is the key prefix used when none is configured.
const DefaultSessionPrefix = "session:"

// SessionStore is a Redis-based session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
	sealer cryptoutil.Sealer
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) SessionStoreOption {
	return func(s *SessionStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSealer encrypts the backend access token before the session is written.
// Sessions whose token cannot be opened (written before the key was set, or under
// another key) read as not found, so the user logs in again.
func WithSealer(sealer cryptoutil.Sealer) SessionStoreOption {
	return func(s *SessionStore) {
		s.sealer = sealer
	}
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		client: client,
		prefix: DefaultSessionPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores sess until its expiry. Partial or expired sessions are rejected.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}
	if !sess.Valid(s.now()) {
		return errors.New("session is incomplete")
	}

	if s.sealer != nil {
		sealed, err := s.sealer.Seal(sess.Token)
		if err != nil {
			return fmt.Errorf("seal session token: %w", err)
		}
		sess.Token = sealed
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

// Get loads a session. Missing, expired and incomplete records all report ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	if s.sealer != nil {
		token, openErr := s.sealer.Open(sess.Token)
		if openErr != nil {
			sess = domainauth.Session{}
		} else {
			sess.Token = token
		}
	}

	if !sess.Valid(s.now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup stale session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session is not found.
var ErrNotFound = ports.ErrSessionNotFound
