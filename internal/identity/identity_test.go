// ABOUTME: Tests for identity providers
// ABOUTME: Validates JWT subject extraction, signature checks, and expiry handling

package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func TestStatic_CurrentUserID(t *testing.T) {
	assert.Equal(t, "u1", Static("u1").CurrentUserID())
}

func TestJWTProvider_ExtractsSubject(t *testing.T) {
	tokenString := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	p, err := NewJWTProvider(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-42", p.CurrentUserID())
}

func TestJWTProvider_RejectsWrongSecret(t *testing.T) {
	tokenString := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewJWTProvider(tokenString, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTProvider_RejectsExpired(t *testing.T) {
	tokenString := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := NewJWTProvider(tokenString, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTProvider_RejectsMissingSubject(t *testing.T) {
	tokenString := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewJWTProvider(tokenString, testSecret)
	assert.ErrorIs(t, err, ErrMissingClaim)
}
