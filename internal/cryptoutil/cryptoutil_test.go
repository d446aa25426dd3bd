package cryptoutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESGCM_SealOpen(t *testing.T) {
	s, err := FromKey(strings.Repeat("ab", 32))
	require.NoError(t, err)

	sealed, err := s.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "payload")

	again, err := s.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "each seal uses a fresh nonce")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", opened)
}

func TestFromKey_PassphraseIsHashed(t *testing.T) {
	a, err := FromKey("correct horse battery staple")
	require.NoError(t, err)
	b, err := FromKey("correct horse battery staple")
	require.NoError(t, err)

	sealed, err := a.Seal("token")
	require.NoError(t, err)
	opened, err := b.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token", opened)

	_, err = FromKey("  ")
	require.Error(t, err)
}

func TestAESGCM_WrongKeyFails(t *testing.T) {
	a, err := FromKey("key-one")
	require.NoError(t, err)
	b, err := FromKey("key-two")
	require.NoError(t, err)

	sealed, err := a.Seal("token")
	require.NoError(t, err)
	_, err = b.Open(sealed)
	require.Error(t, err)
}

func TestAESGCM_OpenRejectsBadInput(t *testing.T) {
	s, err := FromKey("key")
	require.NoError(t, err)

	_, err = s.Open("token-1")
	require.ErrorIs(t, err, ErrUnsealed)

	_, err = s.Open("v1:!!!")
	require.Error(t, err)

	_, err = s.Open("v1:AAAA")
	require.Error(t, err)
}

func TestNewAESGCM_KeyLength(t *testing.T) {
	_, err := NewAESGCM([]byte("short"))
	require.Error(t, err)
}
