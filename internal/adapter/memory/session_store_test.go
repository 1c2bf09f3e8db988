package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

func newTestStore(ttl time.Duration) (*SessionStore, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := NewSessionStore(ttl)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestCreateStartsInIntentDetection(t *testing.T) {
	st, _ := newTestStore(30 * time.Minute)

	s := st.Create("u1")
	if s.Phase != session.PhaseIntentDetection {
		t.Errorf("expected intent-detection, got %s", s.Phase)
	}
	if len(s.Messages) != 0 {
		t.Errorf("expected empty message log, got %d entries", len(s.Messages))
	}

	got, ok := st.Get(s.ID)
	if !ok {
		t.Fatal("Get after Create should find the session")
	}
	if got.UserID != "u1" {
		t.Errorf("expected user u1, got %s", got.UserID)
	}
}

func TestGetEvictsExpiredSession(t *testing.T) {
	st, now := newTestStore(30 * time.Minute)

	s := st.Create("u1")
	*now = now.Add(31 * time.Minute)

	if _, ok := st.Get(s.ID); ok {
		t.Fatal("expired session should be absent on first post-expiry access")
	}
	if st.Count() != 0 {
		t.Errorf("expired session should be evicted by Get, count=%d", st.Count())
	}
}

func TestUpdateRefreshesExpiry(t *testing.T) {
	ttl := 30 * time.Minute
	st, now := newTestStore(ttl)

	s := st.Create("u1")
	*now = now.Add(10 * time.Minute)

	got, ok := st.Update(s.ID, func(s *session.Session) {
		s.Intent.Destination = "日本"
	})
	if !ok {
		t.Fatal("Update on live session should succeed")
	}
	if got.Intent.Destination != "日本" {
		t.Errorf("mutation not applied: %q", got.Intent.Destination)
	}
	if got.ExpiresAt.Sub(got.LastActivityAt) != ttl {
		t.Errorf("expiresAt - lastActivityAt must equal TTL exactly, got %s",
			got.ExpiresAt.Sub(got.LastActivityAt))
	}
	if !got.LastActivityAt.Equal(*now) {
		t.Errorf("lastActivityAt should be reset to now, got %s", got.LastActivityAt)
	}
}

func TestUpdateAbsentOrExpiredIsNoop(t *testing.T) {
	st, now := newTestStore(30 * time.Minute)

	if _, ok := st.Update("missing", func(*session.Session) {}); ok {
		t.Error("Update on missing session should report absent")
	}

	s := st.Create("u1")
	*now = now.Add(time.Hour)
	if _, ok := st.Update(s.ID, func(*session.Session) {}); ok {
		t.Error("Update on expired session should report absent")
	}
}

func TestUpdateTruncatesMessagesToCap(t *testing.T) {
	st, _ := newTestStore(30 * time.Minute)

	s := st.Create("u1")
	_, ok := st.Update(s.ID, func(s *session.Session) {
		for i := 0; i < 25; i++ {
			s.Append("user", fmt.Sprintf("msg-%d", i), time.Now())
		}
	})
	if !ok {
		t.Fatal("Update failed")
	}

	got, _ := st.Get(s.ID)
	if len(got.Messages) != session.MaxMessages {
		t.Fatalf("expected %d messages, got %d", session.MaxMessages, len(got.Messages))
	}
	// Oldest dropped first: the first surviving message is msg-5.
	if got.Messages[0].Content != "msg-5" {
		t.Errorf("expected oldest surviving message msg-5, got %s", got.Messages[0].Content)
	}
}

func TestSweepDropsOnlyExpired(t *testing.T) {
	st, now := newTestStore(30 * time.Minute)

	old := st.Create("u1")
	*now = now.Add(20 * time.Minute)
	fresh := st.Create("u2")
	*now = now.Add(15 * time.Minute) // old is 35m stale, fresh 15m

	if dropped := st.Sweep(); dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", dropped)
	}
	if _, ok := st.Get(old.ID); ok {
		t.Error("old session should be gone")
	}
	if _, ok := st.Get(fresh.ID); !ok {
		t.Error("fresh session should survive the sweep")
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	st, _ := newTestStore(30 * time.Minute)

	s := st.Create("u1")
	got, _ := st.Get(s.ID)
	got.Intent.Destination = "tampered"

	again, _ := st.Get(s.ID)
	if again.Intent.Destination != "" {
		t.Error("mutating a returned session must not affect the stored one")
	}
}

func TestListSkipsExpiredAndSortsNewestFirst(t *testing.T) {
	st, now := newTestStore(30 * time.Minute)

	old := st.Create("u1")
	*now = now.Add(5 * time.Minute)
	newer := st.Create("u2")

	*now = now.Add(28 * time.Minute) // old is now past expiry, newer is not

	metas := st.List()
	if len(metas) != 1 {
		t.Fatalf("expected 1 live session, got %d", len(metas))
	}
	if metas[0].ID != newer.ID {
		t.Errorf("expected %s, got %s", newer.ID, metas[0].ID)
	}
	_ = old

	*now = now.Add(-28 * time.Minute) // both live again
	metas = st.List()
	if len(metas) != 2 {
		t.Fatalf("expected 2 live sessions, got %d", len(metas))
	}
	if !metas[0].CreatedAt.After(metas[1].CreatedAt) {
		t.Error("expected newest-first ordering")
	}
}
