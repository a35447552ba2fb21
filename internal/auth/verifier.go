// Package auth turns bearer credentials into verified identity claims. Three
// verifier modes share one contract: Firebase ID tokens (RS256 against
// Google's securetoken certificates), plain Google ID tokens, and an HS256
// shared secret for local development and tests.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no identity provider is wired up. It is never
	// collapsed into a token error so callers can answer 503 instead of 401.
	ErrNotConfigured = errors.New("authentication service not configured")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Claims are the verified identity attributes behind a credential. UID is the
// stable subject identifier; everything else is optional profile data.
type Claims struct {
	UID            string
	Email          string
	Phone          string
	Name           string
	Picture        string
	SignInProvider string
}

// Verifier checks a bearer credential. Verification is a pure call: no side
// effects, no local state changes.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Unconfigured is the fail-closed verifier used when no provider is set up.
type Unconfigured struct{}

func (Unconfigured) Verify(context.Context, string) (Claims, error) {
	return Claims{}, ErrNotConfigured
}
