// Package services holds the business logic between the HTTP layer and the
// store: the user directory, the ownership resolver, and the movement
// operations with their event publishing.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"suma/internal/auth"
	"suma/internal/core"
	"suma/internal/ledger"
)

// ProfileHints are the optional profile fields a client may send along with
// registration; they win over the token claims when non-empty.
type ProfileHints struct {
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// UserService is the user directory. Registration is the only path that
// creates users; there is no admin provisioning.
type UserService struct {
	store ledger.UserStore
}

func NewUserService(store ledger.UserStore) *UserService {
	return &UserService{store: store}
}

// RegisterOrFetch looks the identity up by its subject and creates the user
// record on first sight. On subsequent sight only non-empty hints overwrite
// the profile; updated_at is refreshed either way.
func (s *UserService) RegisterOrFetch(ctx context.Context, claims auth.Claims, hints ProfileHints) (core.User, error) {
	now := core.Now()

	user, err := s.store.UserByFirebaseUID(ctx, claims.UID)
	switch {
	case err == nil:
		if hints.DisplayName != "" {
			user.DisplayName = hints.DisplayName
		}
		if hints.PhotoURL != "" {
			user.PhotoURL = hints.PhotoURL
		}
		user.UpdatedAt = now
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return core.User{}, fmt.Errorf("update user: %w", err)
		}
		return user, nil

	case err == ledger.ErrNotRegistered:
		user = core.User{
			ID:          uuid.NewString(),
			FirebaseUID: claims.UID,
			Email:       claims.Email,
			Phone:       claims.Phone,
			DisplayName: firstNonEmpty(hints.DisplayName, claims.Name),
			PhotoURL:    firstNonEmpty(hints.PhotoURL, claims.Picture),
			Provider:    claims.SignInProvider,
			Role:        core.DefaultRole,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return core.User{}, fmt.Errorf("create user: %w", err)
		}
		return user, nil

	default:
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}
}

// ResolveOwner maps verified claims onto the internal user id that scopes all
// movement and KPI operations. It never creates: an unregistered identity
// fails closed with ledger.ErrNotRegistered.
func (s *UserService) ResolveOwner(ctx context.Context, claims auth.Claims) (core.User, error) {
	user, err := s.store.UserByFirebaseUID(ctx, claims.UID)
	if err != nil {
		return core.User{}, err
	}
	return user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
