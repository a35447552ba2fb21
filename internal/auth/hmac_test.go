package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func baseClaims(uid string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":          uid,
		"iat":          now.Unix(),
		"exp":          now.Add(time.Hour).Unix(),
		"email":        "alice@example.com",
		"phone_number": "+50688888888",
		"name":         "Alice",
		"picture":      "https://example.com/alice.png",
		"firebase":     map[string]any{"sign_in_provider": "password"},
	}
}

func TestHMACVerifyValid(t *testing.T) {
	v := NewHMACVerifier(testSecret, NewRevocations())
	token := mintToken(t, testSecret, baseClaims("uid1"))

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UID != "uid1" || claims.Email != "alice@example.com" {
		t.Fatalf("claims wrong: %+v", claims)
	}
	if claims.SignInProvider != "password" {
		t.Fatalf("provider=%s", claims.SignInProvider)
	}
}

func TestHMACVerifyExpired(t *testing.T) {
	v := NewHMACVerifier(testSecret, NewRevocations())
	claims := baseClaims("uid1")
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := mintToken(t, testSecret, claims)

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestHMACVerifyMalformed(t *testing.T) {
	v := NewHMACVerifier(testSecret, NewRevocations())
	if _, err := v.Verify(context.Background(), "not.a.token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("got %v, want ErrTokenMalformed", err)
	}
}

func TestHMACVerifyWrongSecret(t *testing.T) {
	v := NewHMACVerifier(testSecret, NewRevocations())
	token := mintToken(t, "other-secret", baseClaims("uid1"))

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestHMACVerifyMissingSubject(t *testing.T) {
	v := NewHMACVerifier(testSecret, NewRevocations())
	claims := baseClaims("uid1")
	delete(claims, "sub")
	token := mintToken(t, testSecret, claims)

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestHMACVerifyRevoked(t *testing.T) {
	revocations := NewRevocations()
	v := NewHMACVerifier(testSecret, revocations)

	claims := baseClaims("uid1")
	claims["iat"] = time.Now().Add(-time.Minute).Unix()
	token := mintToken(t, testSecret, claims)

	// Revoking after issuance invalidates the token.
	revocations.Revoke("uid1", time.Now())
	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("got %v, want ErrTokenRevoked", err)
	}

	// A token minted after the revocation cut passes.
	fresh := baseClaims("uid1")
	fresh["iat"] = time.Now().Add(time.Minute).Unix()
	if _, err := v.Verify(context.Background(), mintToken(t, testSecret, fresh)); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
}

func TestUnconfiguredVerifier(t *testing.T) {
	if _, err := (Unconfigured{}).Verify(context.Background(), "anything"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
}

func TestCacheWindow(t *testing.T) {
	cases := []struct {
		header string
		want   time.Duration
	}{
		{"public, max-age=3600", time.Hour},
		{"max-age=60", time.Minute},
		{"", 5 * time.Minute},
		{"no-cache", 5 * time.Minute},
		{"max-age=0", 5 * time.Minute},
	}
	for i, tc := range cases {
		if got := cacheWindow(tc.header); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}
