// Package service contains the conversation orchestration layer.
package service

import (
	"fmt"
	"log/slog"

	"github.com/Strob0t/RoamGuide/internal/domain"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
	"github.com/Strob0t/RoamGuide/internal/port/sessionstore"
)

// SessionService resolves and inspects conversation sessions.
type SessionService struct {
	store sessionstore.Store
}

// NewSessionService creates a new SessionService.
func NewSessionService(store sessionstore.Store) *SessionService {
	return &SessionService{store: store}
}

// ResolveOrCreate returns the session identified by sessionID after checking
// it belongs to userID, or creates a fresh one when sessionID is empty.
func (s *SessionService) ResolveOrCreate(userID, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		sess := s.store.Create(userID)
		slog.Info("session created", "session_id", sess.ID, "user_id", userID)
		return sess, nil
	}

	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	if sess.UserID != userID {
		slog.Warn("session ownership mismatch", "session_id", sessionID, "user_id", userID)
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrForbidden)
	}
	return sess, nil
}

// Get returns a session for inspection.
func (s *SessionService) Get(sessionID string) (*session.Session, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return sess, nil
}

// List returns metadata for all live sessions, newest first.
func (s *SessionService) List() []session.Metadata {
	return s.store.List()
}

// ActiveCount returns the number of live sessions for the health probe.
func (s *SessionService) ActiveCount() int {
	return s.store.Count()
}
