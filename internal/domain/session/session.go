// Package session defines the conversation session model and its phase machine.
package session

import (
	"encoding/json"
	"time"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
)

// MaxMessages bounds the per-session message log; oldest entries are dropped first.
const MaxMessages = 20

// Message is one entry in the session's audit trail. It is not the
// conversational memory of the reasoning layer.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TravelDates is an optional date range attached to a detected intent.
type TravelDates struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Intent holds what the heuristics have extracted from the conversation so far.
type Intent struct {
	Destination  string       `json:"destination,omitempty"`
	TravelDates  *TravelDates `json:"travel_dates,omitempty"`
	Confirmed    bool         `json:"confirmed"`
	UserApproved bool         `json:"user_approved"`
	DetectedAt   time.Time    `json:"detected_at,omitempty"`
	ConfirmedAt  time.Time    `json:"confirmed_at,omitempty"`
}

// PendingCall summarizes one gated capability call awaiting user approval.
type PendingCall struct {
	Name           string          `json:"name"`
	AgentName      string          `json:"agent_name"`
	Arguments      json.RawMessage `json:"arguments,omitempty"`
	ApprovalHandle string          `json:"approval_handle"`
}

// PendingApproval is a suspended turn: an opaque continuation token from the
// reasoning layer plus the calls that need approval before it may resume.
// A session holds at most one; a newer suspension replaces it.
type PendingApproval struct {
	ContinuationToken string        `json:"continuation_token"`
	PendingCalls      []PendingCall `json:"pending_calls"`
}

// Session is one active conversation. Sessions live in process memory only
// and are evicted lazily once past ExpiresAt.
type Session struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"user_id"`
	CreatedAt      time.Time               `json:"created_at"`
	LastActivityAt time.Time               `json:"last_activity_at"`
	ExpiresAt      time.Time               `json:"expires_at"`
	Phase          Phase                   `json:"phase"`
	Intent         Intent                  `json:"intent"`
	Usage          *roaming.Usage          `json:"usage,omitempty"`
	Plans          []roaming.Plan          `json:"plans,omitempty"`
	Recommendation string                  `json:"recommendation,omitempty"`
	Messages       []Message               `json:"messages"`
	Pending        *PendingApproval        `json:"pending_approval,omitempty"`
}

// Append adds a message to the log, dropping the oldest entries beyond MaxMessages.
func (s *Session) Append(role, content string, at time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content, Timestamp: at})
	if n := len(s.Messages); n > MaxMessages {
		s.Messages = s.Messages[n-MaxMessages:]
	}
}

// Metadata is the non-sensitive projection served by the dev session inspector.
type Metadata struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Phase          Phase     `json:"phase"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	MessageCount   int       `json:"message_count"`
	Suspended      bool      `json:"suspended"`
}

// Meta returns the inspector projection of s.
func (s *Session) Meta() Metadata {
	return Metadata{
		ID:             s.ID,
		UserID:         s.UserID,
		Phase:          s.Phase,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		ExpiresAt:      s.ExpiresAt,
		MessageCount:   len(s.Messages),
		Suspended:      s.Pending != nil,
	}
}
