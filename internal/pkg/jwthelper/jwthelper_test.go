package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojass-festival/ojass-api/internal/domain"
)

var testKey = []byte("test-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testKey, 42, domain.RoleUser, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testKey, token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "ojass-api", claims.Issuer)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testKey, 42, domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testKey, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_TamperedSignature(t *testing.T) {
	token, err := GenerateToken(testKey, 42, domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	// Flip a signature character. The final character only carries
	// padding bits, so alter the one before it.
	tampered := []byte(token)
	pos := len(tampered) - 2
	if tampered[pos] == 'A' {
		tampered[pos] = 'B'
	} else {
		tampered[pos] = 'A'
	}

	_, err = ParseToken(testKey, string(tampered))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := GenerateToken(testKey, 42, domain.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("another-key"), token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseToken_Malformed(t *testing.T) {
	_, err := ParseToken(testKey, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
