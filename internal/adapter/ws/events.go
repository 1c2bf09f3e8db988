package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

// Event type constants for WebSocket messages.
const (
	EventApprovalRequested = "approval.requested"
	EventApprovalResolved  = "approval.resolved"
	EventSessionPhase      = "session.phase"
)

// ApprovalRequestedEvent is broadcast when a turn suspends on tool calls
// that need user approval.
type ApprovalRequestedEvent struct {
	SessionID string                `json:"session_id"`
	UserID    string                `json:"user_id"`
	Calls     []session.PendingCall `json:"calls"`
}

// ApprovalResolvedEvent is broadcast when a pending approval is granted
// or declined.
type ApprovalResolvedEvent struct {
	SessionID string `json:"session_id"`
	Approved  bool   `json:"approved"`
}

// SessionPhaseEvent is broadcast when a session moves to a new phase.
type SessionPhaseEvent struct {
	SessionID string        `json:"session_id"`
	From      session.Phase `json:"from"`
	To        session.Phase `json:"to"`
}

// BroadcastEvent marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
