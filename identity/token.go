package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "hr-engine"

// TokenManager issues and verifies HMAC-signed JWTs whose subject is the
// actor id. Token issuance normally happens in the surrounding auth service;
// the engine only needs Verify, but Issue is kept for that service and for
// tests.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the actor id.
func (tm *TokenManager) Issue(actorID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   actorID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the token signature and expiry and returns the actor id.
// Any failure is reported as ErrInvalidToken; callers don't need to
// distinguish a forged token from an expired one.
func (tm *TokenManager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Resolver turns a bearer token into the acting Actor.
type Resolver struct {
	Tokens *TokenManager
	Actors Store
}

func NewResolver(tokens *TokenManager, actors Store) *Resolver {
	return &Resolver{Tokens: tokens, Actors: actors}
}

// ResolveActor verifies the token and loads the actor it names.
func (r *Resolver) ResolveActor(ctx context.Context, token string) (*Actor, error) {
	id, err := r.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return r.Actors.FindActorByID(ctx, id)
}
