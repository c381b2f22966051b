// Package auth is the identity provider: it hands out anonymous principal IDs
// inside signed tokens and verifies them when a connection opens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"battlegogo/backend/internal/config"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const principalClaim = "anon_id"

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewPrincipalID returns a fresh anonymous principal ID.
func NewPrincipalID() string {
	return uuid.NewString()
}

// Issue signs an HS256 token carrying principalID.
func (i *Issuer) Issue(principalID string) (string, error) {
	claims := jwt.MapClaims{
		principalClaim: principalID,
		"exp":          i.now().Add(i.ttl).Unix(),
		"iat":          i.now().Unix(),
		"iss":          config.TokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks signature, method, issuer and expiry and returns the
// principal ID.
func (i *Issuer) Verify(tokenString string) (string, error) {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}

	token, err := jwt.Parse(tokenString, keyFunc,
		jwt.WithIssuer(config.TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	principalID, _ := claims[principalClaim].(string)
	if principalID == "" {
		return "", fmt.Errorf("%w: missing %s claim", ErrInvalidToken, principalClaim)
	}
	return principalID, nil
}
