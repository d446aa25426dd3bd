package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	// No session
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}

	// With session
	sess := &domainauth.Session{ID: "abc", Role: domainauth.RoleBuyer}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)

	// nil session leaves the context untouched
	assert.Nil(t, GetSessionFromContext(SetSessionInContext(context.Background(), nil)))
}

func TestIsAnonymous(t *testing.T) {
	assert.True(t, IsAnonymous(context.Background()))

	seller := &domainauth.Session{ID: "s", Role: domainauth.RoleSeller}
	assert.False(t, IsAnonymous(SetSessionInContext(context.Background(), seller)))
}
