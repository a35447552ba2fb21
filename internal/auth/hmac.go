package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier validates HS256 tokens signed with a shared secret. It exists
// for local development and tests, where minting RS256 Firebase tokens is not
// an option; the claim layout matches the Firebase verifier.
type HMACVerifier struct {
	secret      []byte
	revocations *Revocations
}

var _ Verifier = (*HMACVerifier)(nil)

func NewHMACVerifier(secret string, revocations *Revocations) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), revocations: revocations}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Claims{}, classify(err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	claims := claimsFromMap(mc)
	if claims.UID == "" {
		return Claims{}, ErrTokenInvalid
	}
	if revokedAt(v.revocations, claims.UID, mc) {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}
