// ABOUTME: Identity providers supplying the current user_id for session partitioning
// ABOUTME: Extracts the subject claim from a login JWT without verifying upstream concerns

package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// Provider supplies the user_id of the current actor. Implementations must
// return a stable value for the lifetime of a login.
type Provider interface {
	CurrentUserID() string
}

// Static is a fixed-id Provider for tests and single-user tooling.
type Static string

// CurrentUserID returns the fixed id.
func (s Static) CurrentUserID() string { return string(s) }

// JWTProvider extracts the user id from an HS256-signed login token's "sub"
// claim. The id is resolved once at construction; a token that expires later
// does not invalidate an already-running session.
type JWTProvider struct {
	userID string
}

// NewJWTProvider verifies the token against secret and captures its subject.
func NewJWTProvider(tokenString string, secret []byte) (*JWTProvider, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return &JWTProvider{userID: sub}, nil
}

// CurrentUserID returns the subject captured at construction.
func (p *JWTProvider) CurrentUserID() string { return p.userID }
