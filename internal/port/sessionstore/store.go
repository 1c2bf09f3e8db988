// Package sessionstore defines the port interface for the conversation
// session registry.
package sessionstore

import (
	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

// Store is a keyed, TTL-expiring session registry. Implementations provide
// no per-session serialization: concurrent updates are last-writer-wins, and
// callers that need single-flight turns must serialize above the store.
type Store interface {
	// Create allocates a new session for userID in the intent-detection phase.
	Create(userID string) *session.Session

	// Get returns the session when present and unexpired. An expired session
	// is evicted on this read and reported as absent.
	Get(id string) (*session.Session, bool)

	// Update applies the mutator to the session, truncates its message log,
	// and refreshes its activity/expiry timestamps. Returns false when the
	// session does not exist or has expired.
	Update(id string, apply func(s *session.Session)) (*session.Session, bool)

	// Sweep deletes all sessions past expiry and returns how many were dropped.
	// Sweeping only frees memory; Get self-evicts, so correctness never
	// depends on it.
	Sweep() int

	// Count returns the number of live sessions (for the health probe).
	Count() int

	// List returns metadata for every live session, newest first.
	List() []session.Metadata
}
