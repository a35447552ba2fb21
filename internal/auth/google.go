package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier accepts plain Google ID tokens (sign-in without Firebase in
// front). Validation is delegated to the idtoken package; only the claim
// mapping and the error taxonomy are ours.
type GoogleVerifier struct {
	validator   *idtoken.Validator
	audience    string
	revocations *Revocations
}

var _ Verifier = (*GoogleVerifier)(nil)

func NewGoogleVerifier(ctx context.Context, audience string, revocations *Revocations) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create idtoken validator: %w", err)
	}
	return &GoogleVerifier{validator: validator, audience: audience, revocations: revocations}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		// idtoken reports failures as plain strings.
		msg := err.Error()
		switch {
		case strings.Contains(msg, "expired"):
			return Claims{}, ErrTokenExpired
		case strings.Contains(msg, "malformed") || strings.Contains(msg, "invalid token format"):
			return Claims{}, ErrTokenMalformed
		default:
			return Claims{}, ErrTokenInvalid
		}
	}

	str := func(key string) string {
		s, _ := payload.Claims[key].(string)
		return s
	}
	claims := Claims{
		UID:            payload.Subject,
		Email:          str("email"),
		Name:           str("name"),
		Picture:        str("picture"),
		SignInProvider: "google.com",
	}
	if claims.UID == "" {
		return Claims{}, ErrTokenInvalid
	}
	if v.revocations.Revoked(claims.UID, time.Unix(payload.IssuedAt, 0)) {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}
