// Package ledger defines the storage contract shared by the relational and
// document backends. Business logic depends only on these interfaces and never
// branches on which backend is active.
package ledger

import (
	"context"
	"errors"

	"suma/internal/core"
)

var (
	// ErrNotFound covers both a nonexistent record and one owned by another
	// user. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrNotRegistered means the identity is valid but has no user record.
	ErrNotRegistered = errors.New("user not registered")
)

const (
	// DefaultLimit and MaxLimit bound movement pagination.
	DefaultLimit = 50
	MaxLimit     = 200

	// ReferenceListCap bounds business unit and tag listings. Reference data
	// at this scale never approaches it.
	ReferenceListCap = 100
)

// MovementFilter narrows a scoped movement listing. Empty fields apply no
// constraint; set fields combine with AND.
type MovementFilter struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

// Normalize applies the pagination defaults and caps.
func (f MovementFilter) Normalize() MovementFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// MovementStore is the ownership-scoped movement contract. Every method takes
// the resolved owner id and must be unable to observe or mutate movements
// belonging to anyone else.
type MovementStore interface {
	// Movements lists the owner's movements, newest created_at first.
	Movements(ctx context.Context, ownerID string, f MovementFilter) ([]core.Movement, error)
	CreateMovement(ctx context.Context, m core.Movement) error
	// UpdateMovement applies the patch and returns the stored result.
	// Returns ErrNotFound for ids that are absent or foreign-owned.
	UpdateMovement(ctx context.Context, ownerID, id string, patch core.MovementPatch, now string) (core.Movement, error)
	DeleteMovement(ctx context.Context, ownerID, id string) error
	// Summarize computes the KPI aggregates for the owner over the period
	// window. No isolation guarantee: this is a dashboard statistic.
	Summarize(ctx context.Context, ownerID string, period core.Period) (core.KPISummary, error)
}

// ReferenceStore is the shared, unscoped reference-data contract.
type ReferenceStore interface {
	BusinessUnits(ctx context.Context) ([]core.BusinessUnit, error)
	CreateBusinessUnit(ctx context.Context, u core.BusinessUnit) error
	Tags(ctx context.Context) ([]core.Tag, error)
	CreateTag(ctx context.Context, t core.Tag) error
}

// UserStore backs the user directory.
type UserStore interface {
	// UserByFirebaseUID returns ErrNotRegistered when no record exists.
	UserByFirebaseUID(ctx context.Context, uid string) (core.User, error)
	CreateUser(ctx context.Context, u core.User) error
	UpdateUser(ctx context.Context, u core.User) error
}

// Event is one entry of the movement audit trail, recorded by the worker from
// published movement events.
type Event struct {
	ID         string `json:"id"`
	MovementID string `json:"movement_id"`
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at"`
}

// SeedSet is the fixed demonstration dataset. Seeding is all-or-nothing and
// callers check MovementCount first to keep it idempotent.
type SeedSet struct {
	Units     []core.BusinessUnit
	Tags      []core.Tag
	Movements []core.Movement
}

// Store is the complete backend contract the factory hands to the wiring
// layer. Both the sqlite and the document implementation satisfy it.
type Store interface {
	MovementStore
	ReferenceStore
	UserStore

	// MovementCount is unscoped; it backs the seed idempotence check.
	MovementCount(ctx context.Context) (int, error)
	Seed(ctx context.Context, set SeedSet) error
	RecordEvent(ctx context.Context, e Event) error
}
