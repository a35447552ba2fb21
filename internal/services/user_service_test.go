package services

import (
	"context"
	"errors"
	"testing"

	"suma/internal/auth"
	"suma/internal/ledger"
	"suma/internal/ledger/document"
)

func testClaims(uid string) auth.Claims {
	return auth.Claims{
		UID:            uid,
		Email:          "alice@example.com",
		Name:           "Alice From Token",
		Picture:        "https://example.com/token.png",
		SignInProvider: "password",
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(document.New())

	user, err := svc.RegisterOrFetch(ctx, testClaims("uid1"), ProfileHints{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("no id assigned")
	}
	if user.FirebaseUID != "uid1" || user.Email != "alice@example.com" {
		t.Fatalf("identity not copied: %+v", user)
	}
	if user.DisplayName != "Alice From Token" || user.PhotoURL != "https://example.com/token.png" {
		t.Fatalf("profile not defaulted from claims: %+v", user)
	}
	if user.Role != "user" {
		t.Fatalf("role=%s", user.Role)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(document.New())

	first, err := svc.RegisterOrFetch(ctx, testClaims("uid1"), ProfileHints{})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	second, err := svc.RegisterOrFetch(ctx, testClaims("uid1"), ProfileHints{})
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second register created a new user: %s vs %s", second.ID, first.ID)
	}
}

func TestRegisterHintsWin(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(document.New())

	user, err := svc.RegisterOrFetch(ctx, testClaims("uid1"), ProfileHints{
		DisplayName: "Alice Custom",
		PhotoURL:    "https://example.com/custom.png",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.DisplayName != "Alice Custom" || user.PhotoURL != "https://example.com/custom.png" {
		t.Fatalf("hints ignored: %+v", user)
	}

	// Re-register with new hints updates the profile, empty hints leave it.
	user, err = svc.RegisterOrFetch(ctx, testClaims("uid1"), ProfileHints{DisplayName: "Alice Renamed"})
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if user.DisplayName != "Alice Renamed" {
		t.Fatalf("hint not applied on re-register: %+v", user)
	}
	if user.PhotoURL != "https://example.com/custom.png" {
		t.Fatalf("empty hint overwrote photo: %+v", user)
	}
}

func TestResolveOwnerNeverCreates(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(document.New())

	if _, err := svc.ResolveOwner(ctx, testClaims("ghost")); !errors.Is(err, ledger.ErrNotRegistered) {
		t.Fatalf("got %v, want ErrNotRegistered", err)
	}

	registered, _ := svc.RegisterOrFetch(ctx, testClaims("uid1"), ProfileHints{})
	owner, err := svc.ResolveOwner(ctx, testClaims("uid1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if owner.ID != registered.ID {
		t.Fatalf("resolved wrong user: %+v", owner)
	}
}
