package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := NewTokenPair(testSecret, "member-uuid", 987654321, "MEMBER", 15, 7)
	require.NoError(t, err)
	assert.True(t, pair.AccessExp.Before(pair.RefreshExp))

	access, err := ParseToken(testSecret, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "member-uuid", access.MemberID)
	assert.Equal(t, int64(987654321), access.TelegramID)
	assert.Equal(t, "MEMBER", access.Role)
	assert.Equal(t, TokenTypeAccess, access.Type)

	refresh, err := ParseToken(testSecret, pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.Type)
	assert.Equal(t, "member-uuid", refresh.MemberID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	pair, err := NewTokenPair(testSecret, "member-uuid", 1, "MEMBER", 15, 7)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	expired, err := sign(testSecret, "member-uuid", 1, "MEMBER", TokenTypeAccess,
		time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(testSecret, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenTamperedPayload(t *testing.T) {
	pair, err := NewTokenPair(testSecret, "member-uuid", 1, "MEMBER", 15, 7)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	raw := []byte(pair.Access)
	mid := len(raw) / 2
	if raw[mid] == 'a' {
		raw[mid] = 'b'
	} else {
		raw[mid] = 'a'
	}

	_, err = ParseToken(testSecret, string(raw))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenAdminRole(t *testing.T) {
	pair, err := NewTokenPair(testSecret, "admin-uuid", 2, "ADMIN", 15, 7)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)
}
