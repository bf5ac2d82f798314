// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ruchidavda1/todoapp/internal/common"
)

// Claims are the registered JWT claims plus the owning user's identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenService signs HS256 tokens that expire a fixed duration after issue.
// Tokens are stateless: there is no revocation, expiry is the only way out.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService returns a TokenService using the wall clock.
func NewTokenService(secretKey []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secretKey, validity: validity, now: time.Now}
}

// WithClock returns a copy of s reading the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// Issue produces a signed token for userID.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify returns the user id carried by tokenString. A bad signature, a
// malformed token, a missing user id, or a current time at or after the
// expiry all fail with common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
