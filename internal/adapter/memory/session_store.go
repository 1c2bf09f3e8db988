// Package memory implements the session store port as a process-local,
// TTL-expiring registry. Sessions are volatile: a restart loses every
// conversation.
package memory

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

// SessionStore is a mutex-guarded map of live sessions. It provides no
// per-session serialization; concurrent updates are last-writer-wins.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire ttl after their last
// activity.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create allocates a session in the intent-detection phase.
func (st *SessionStore) Create(userID string) *session.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	s := &session.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(st.ttl),
		Phase:          session.PhaseIntentDetection,
		Messages:       []session.Message{},
	}
	st.sessions[s.ID] = s

	slog.Debug("session created", "session_id", s.ID, "user_id", userID)
	return snapshot(s)
}

// Get returns the session when present and unexpired. An expired session is
// evicted on this read, so it is observably gone on its first post-expiry
// access without any background sweep.
func (st *SessionStore) Get(id string) (*session.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.now().After(s.ExpiresAt) {
		delete(st.sessions, id)
		slog.Debug("session expired on access", "session_id", id)
		return nil, false
	}
	return snapshot(s), true
}

// Update applies the mutator, truncates the message log, and refreshes the
// activity and expiry timestamps. Returns false for absent or expired sessions.
func (st *SessionStore) Update(id string, apply func(s *session.Session)) (*session.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if now.After(s.ExpiresAt) {
		delete(st.sessions, id)
		return nil, false
	}

	apply(s)

	if n := len(s.Messages); n > session.MaxMessages {
		s.Messages = s.Messages[n-session.MaxMessages:]
	}
	s.LastActivityAt = now
	s.ExpiresAt = now.Add(st.ttl)

	return snapshot(s), true
}

// Sweep deletes all sessions past expiry and returns the count.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	dropped := 0
	for id, s := range st.sessions {
		if now.After(s.ExpiresAt) {
			delete(st.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		slog.Debug("session sweep", "dropped", dropped, "remaining", len(st.sessions))
	}
	return dropped
}

// Count returns the number of sessions currently held, including any that
// expired but have not been observed or swept yet.
func (st *SessionStore) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// List returns metadata for live sessions, newest first. Expired sessions
// that nothing observed yet are skipped but left for the sweeper.
func (st *SessionStore) List() []session.Metadata {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	metas := make([]session.Metadata, 0, len(st.sessions))
	for _, s := range st.sessions {
		if now.After(s.ExpiresAt) {
			continue
		}
		metas = append(metas, s.Meta())
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas
}

// StartSweeper runs Sweep every interval until the returned cancel function
// is called. The sweep only frees memory.
func (st *SessionStore) StartSweeper(interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				st.Sweep()
			}
		}
	}()
	return func() { close(done) }
}

// snapshot copies s so callers never hold a pointer into the map. Slices and
// nested pointers are copied shallowly one level deep, which covers every
// mutation the services perform.
func snapshot(s *session.Session) *session.Session {
	cp := *s
	cp.Messages = append([]session.Message(nil), s.Messages...)
	cp.Plans = append([]roaming.Plan(nil), s.Plans...)
	if s.Usage != nil {
		u := *s.Usage
		cp.Usage = &u
	}
	if s.Intent.TravelDates != nil {
		d := *s.Intent.TravelDates
		cp.Intent.TravelDates = &d
	}
	if s.Pending != nil {
		p := *s.Pending
		p.PendingCalls = append([]session.PendingCall(nil), s.Pending.PendingCalls...)
		cp.Pending = &p
	}
	return &cp
}
