package auth

import (
	"sync"
	"time"
)

// Revocations marks moments before which a user's tokens stop being accepted,
// which is how the upstream identity provider models revocation: tokens issued
// before the mark still verify cryptographically but are rejected.
type Revocations struct {
	mu     sync.RWMutex
	before map[string]time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{before: make(map[string]time.Time)}
}

// Revoke invalidates every token of uid issued before t.
func (r *Revocations) Revoke(uid string, t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.before[uid]; !ok || t.After(cur) {
		r.before[uid] = t
	}
}

// Revoked reports whether a token of uid issued at issuedAt is revoked.
// A nil registry revokes nothing.
func (r *Revocations) Revoked(uid string, issuedAt time.Time) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	mark, ok := r.before[uid]
	return ok && issuedAt.Before(mark)
}
