package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	secret := "test-secret"
	caps := []string{"catalog.can_mark_returned"}

	token, jti, err := GenerateToken(secret, "user-123", caps, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Sub)
	assert.Equal(t, caps, claims.Caps)
	assert.Equal(t, jti, claims.ID)
}

func TestGenerateToken_UniqueJTIs(t *testing.T) {
	_, jti1, err1 := GenerateToken("s", "u", nil, time.Hour)
	_, jti2, err2 := GenerateToken("s", "u", nil, time.Hour)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, jti1, jti2)
}

func TestParseToken_Rejects(t *testing.T) {
	secret := "test-secret"

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := GenerateToken("other-secret", "u", nil, time.Hour)
		require.NoError(t, err)
		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired", func(t *testing.T) {
		c := Claims{
			Sub: "u",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		c := Claims{
			Sub: "u",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, VerifyPassword(hash, "Secret123!"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
