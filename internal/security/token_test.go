package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager(testSecret)

	t.Run("Access token round trip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, "librarian@libratrack.id", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, TokenTypeAccess, claims.Type)

		auth, err := tm.AuthContext(token)
		require.NoError(t, err)
		assert.Equal(t, token, auth.Token)
		assert.Equal(t, int32(42), auth.UserID)
		assert.Equal(t, "Bearer "+token, auth.BearerHeader())
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(1, "", nil, -time.Minute)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff")
		token, err := other.GenerateAccessToken(1, "", nil, time.Hour)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.AuthContext("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Service token is not a session", func(t *testing.T) {
		token, err := tm.GenerateServiceToken("libratrack-cronjob", time.Minute)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeService, claims.Type)
		assert.Equal(t, "libratrack-cronjob", claims.Subject)

		_, err = tm.AuthContext(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}
