// Package document implements the ledger contract on in-memory collections of
// JSON documents, optionally persisted to one file per collection. It mirrors
// the shape of the original document database: whole records stored as
// documents, filtered by predicate.
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"suma/internal/core"
	"suma/internal/ledger"
)

type collections struct {
	Movements     []core.Movement     `json:"movements"`
	BusinessUnits []core.BusinessUnit `json:"business_units"`
	Tags          []core.Tag          `json:"tags"`
	Users         []core.User         `json:"users"`
	Events        []ledger.Event      `json:"events"`
}

// Store holds every collection behind one mutex. Single-process use only; the
// relational backend is the one to pick when that stops being true.
type Store struct {
	mu   sync.Mutex
	dir  string // empty disables persistence
	data collections
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewFromDir loads collections persisted by a previous run. A missing or
// unreadable file just starts that collection empty.
func NewFromDir(dir string) *Store {
	s := &Store{dir: dir}
	s.load()
	return s
}

func (s *Store) load() {
	readInto := func(name string, v any) {
		b, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return
		}
		_ = json.Unmarshal(b, v)
	}
	readInto("movements.json", &s.data.Movements)
	readInto("business_units.json", &s.data.BusinessUnits)
	readInto("tags.json", &s.data.Tags)
	readInto("users.json", &s.data.Users)
	readInto("events.json", &s.data.Events)
}

// flush writes the collections back to disk. Callers hold the mutex.
func (s *Store) flush() error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	write := func(name string, v any) error {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(s.dir, name), b, 0644)
	}
	if err := write("movements.json", s.data.Movements); err != nil {
		return fmt.Errorf("persist movements: %w", err)
	}
	if err := write("business_units.json", s.data.BusinessUnits); err != nil {
		return fmt.Errorf("persist business units: %w", err)
	}
	if err := write("tags.json", s.data.Tags); err != nil {
		return fmt.Errorf("persist tags: %w", err)
	}
	if err := write("users.json", s.data.Users); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	if err := write("events.json", s.data.Events); err != nil {
		return fmt.Errorf("persist events: %w", err)
	}
	return nil
}

// --- movements ---

func (s *Store) Movements(_ context.Context, ownerID string, f ledger.MovementFilter) ([]core.Movement, error) {
	f = f.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []core.Movement
	for _, m := range s.data.Movements {
		if m.UserID != ownerID {
			continue
		}
		if f.Status != "" && string(m.Status) != f.Status {
			continue
		}
		if f.Type != "" && string(m.Type) != f.Type {
			continue
		}
		matched = append(matched, m)
	}
	// Newest first. created_at is RFC3339 so string order is time order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt > matched[j].CreatedAt
	})

	if f.Offset >= len(matched) {
		return []core.Movement{}, nil
	}
	matched = matched[f.Offset:]
	if len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	out := make([]core.Movement, len(matched))
	copy(out, matched)
	return out, nil
}

func (s *Store) CreateMovement(_ context.Context, m core.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Movements = append(s.data.Movements, m)
	return s.flush()
}

func (s *Store) UpdateMovement(_ context.Context, ownerID, id string, patch core.MovementPatch, now string) (core.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Movements {
		m := &s.data.Movements[i]
		if m.ID != id || m.UserID != ownerID {
			continue
		}
		patch.Apply(m, now)
		if err := s.flush(); err != nil {
			return core.Movement{}, err
		}
		return *m, nil
	}
	return core.Movement{}, ledger.ErrNotFound
}

func (s *Store) DeleteMovement(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.data.Movements {
		if m.ID != id || m.UserID != ownerID {
			continue
		}
		s.data.Movements = append(s.data.Movements[:i], s.data.Movements[i+1:]...)
		return s.flush()
	}
	return ledger.ErrNotFound
}

func (s *Store) Summarize(_ context.Context, ownerID string, period core.Period) (core.KPISummary, error) {
	since := period.Start(time.Now().UTC())
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum core.KPISummary
	for _, m := range s.data.Movements {
		if m.UserID != ownerID {
			continue
		}
		if since != "" && m.Date < since {
			continue
		}
		sum.MovementCount++
		if m.Status == core.StatusPending {
			sum.PendingCount++
		}
		switch m.Type {
		case core.Income:
			sum.TotalIncome += m.Amount
		case core.Expense:
			sum.TotalExpense += m.Amount
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	return sum, nil
}

// --- reference data ---

func (s *Store) BusinessUnits(_ context.Context) ([]core.BusinessUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.data.BusinessUnits)
	if n > ledger.ReferenceListCap {
		n = ledger.ReferenceListCap
	}
	out := make([]core.BusinessUnit, n)
	copy(out, s.data.BusinessUnits[:n])
	return out, nil
}

func (s *Store) CreateBusinessUnit(_ context.Context, u core.BusinessUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.BusinessUnits = append(s.data.BusinessUnits, u)
	return s.flush()
}

func (s *Store) Tags(_ context.Context) ([]core.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.data.Tags)
	if n > ledger.ReferenceListCap {
		n = ledger.ReferenceListCap
	}
	out := make([]core.Tag, n)
	copy(out, s.data.Tags[:n])
	return out, nil
}

func (s *Store) CreateTag(_ context.Context, t core.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Tags = append(s.data.Tags, t)
	return s.flush()
}

// --- users ---

func (s *Store) UserByFirebaseUID(_ context.Context, uid string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.Users {
		if u.FirebaseUID == uid {
			return u, nil
		}
	}
	return core.User{}, ledger.ErrNotRegistered
}

func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Users = append(s.data.Users, u)
	return s.flush()
}

func (s *Store) UpdateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Users {
		if s.data.Users[i].ID == u.ID {
			s.data.Users[i] = u
			return s.flush()
		}
	}
	return ledger.ErrNotFound
}

// --- seed and audit ---

func (s *Store) MovementCount(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.Movements), nil
}

func (s *Store) Seed(_ context.Context, set ledger.SeedSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.BusinessUnits = append(s.data.BusinessUnits, set.Units...)
	s.data.Tags = append(s.data.Tags, set.Tags...)
	s.data.Movements = append(s.data.Movements, set.Movements...)
	return s.flush()
}

func (s *Store) RecordEvent(_ context.Context, e ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Events = append(s.data.Events, e)
	return s.flush()
}

// Close flushes any pending state. The in-memory variant has nothing else to
// release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}
