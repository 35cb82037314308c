package handler

import (
	"sync"
	"time"

	"qualityhome/lib/intake"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	defaultSessionTTL    = 15 * time.Minute
	maxIdempotencyKeyLen = 128
)

type sessionEntry struct {
	session  *intake.Session
	lastUsed time.Time
}

// sessionRegistry keeps the Session of each idempotency key alive between requests, so
// repeated POSTs with one key share the submit guard. Entries idle longer than ttl are
// dropped unless their submit is still in flight.
type sessionRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*sessionEntry
}

func (r *sessionRegistry) get(key string, create func() *intake.Session) *intake.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	if r.entries == nil {
		r.entries = map[string]*sessionEntry{}
	}
	r.evictLocked(now)

	entry, ok := r.entries[key]
	if !ok {
		entry = &sessionEntry{session: create()}
		r.entries[key] = entry
	}
	entry.lastUsed = now
	return entry.session
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (r *sessionRegistry) evictLocked(now time.Time) {
	ttl := r.ttl
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	for key, entry := range r.entries {
		if now.Sub(entry.lastUsed) > ttl && entry.session.Status().State != intake.SubmissionSubmitting {
			delete(r.entries, key)
		}
	}
}

func (r *sessionRegistry) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
