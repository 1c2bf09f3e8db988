package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/Strob0t/RoamGuide/internal/adapter/otel"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
	"github.com/Strob0t/RoamGuide/internal/ratelimit"
	"github.com/Strob0t/RoamGuide/internal/service"
)

// chatServicePort is the slice of ChatService the handlers need.
type chatServicePort interface {
	HandleTurn(ctx context.Context, sessionID, message string) (*session.Session, string, error)
}

// sessionServicePort is the slice of SessionService the handlers need.
type sessionServicePort interface {
	ResolveOrCreate(userID, sessionID string) (*session.Session, error)
	Get(sessionID string) (*session.Session, error)
	List() []session.Metadata
	ActiveCount() int
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Chat     chatServicePort
	Sessions sessionServicePort
	Limiter  *ratelimit.Limiter
	Metrics  *otel.Metrics
}

// NewHandlers wires the handler set. Metrics may be nil.
func NewHandlers(chat *service.ChatService, sessions *service.SessionService, limiter *ratelimit.Limiter, metrics *otel.Metrics) *Handlers {
	return &Handlers{Chat: chat, Sessions: sessions, Limiter: limiter, Metrics: metrics}
}

type chatRequest struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// HandleChat handles POST /api/v1/chat.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[chatRequest](w, r)
	if !ok {
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	// Rate limit per conversation: the session id when supplied, else the
	// caller address. Proxy headers are untrusted.
	key := req.SessionID
	if key == "" {
		key = remoteIP(r)
	}
	if retryAfter, allowed := h.Limiter.Check(key); !allowed {
		if h.Metrics != nil {
			h.Metrics.RateLimited.Add(r.Context(), 1)
		}
		writeRateLimited(w, retryAfter)
		return
	}

	sess, err := h.Sessions.ResolveOrCreate(req.UserID, req.SessionID)
	if err != nil {
		writeDomainError(w, err, "session not found or expired")
		return
	}

	sess, reply, err := h.Chat.HandleTurn(r.Context(), sess.ID, req.Message)
	if err != nil {
		writeDomainError(w, err, "session not found or expired")
		return
	}

	writeJSON(w, http.StatusOK, AssembleResponse(sess, reply))
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": h.Sessions.ActiveCount(),
	})
}

// HandleListSessions handles GET /api/v1/dev/sessions.
func (h *Handlers) HandleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": h.Sessions.List(),
	})
}

// HandleGetSession handles GET /api/v1/dev/sessions/{id}.
func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "session not found or expired")
		return
	}
	writeJSON(w, http.StatusOK, sess.Meta())
}

// remoteIP extracts the caller address from RemoteAddr.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
