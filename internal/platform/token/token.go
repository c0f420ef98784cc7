package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"caregate/internal/shared/authz"
)

// Package token signs and verifies actor assertions. The core services
// return an identity assertion on authentication; this collaborator
// turns it into a bearer token and resolves the actor descriptor on
// inbound requests.

var ErrBadToken = errors.New("invalid token")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

func (s *Signer) Sign(userID string, role authz.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies a bearer token and returns the actor it asserts.
func (s *Signer) Parse(raw string) (authz.Actor, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	})
	if err != nil {
		return authz.Actor{}, ErrBadToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return authz.Actor{}, ErrBadToken
	}
	actor := authz.Actor{ID: claims.Subject, Role: authz.Role(claims.Role)}
	if actor.ID == "" || !actor.Role.Valid() {
		return authz.Actor{}, ErrBadToken
	}
	return actor, nil
}
