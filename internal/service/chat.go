package service

import (
	"context"
	"log/slog"
	"time"

	otelad "github.com/Strob0t/RoamGuide/internal/adapter/otel"
	"github.com/Strob0t/RoamGuide/internal/adapter/ws"
	"github.com/Strob0t/RoamGuide/internal/domain"
	"github.com/Strob0t/RoamGuide/internal/domain/gate"
	"github.com/Strob0t/RoamGuide/internal/domain/intent"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
	"github.com/Strob0t/RoamGuide/internal/port/agentrun"
	"github.com/Strob0t/RoamGuide/internal/port/sessionstore"
)

// Fixed user-facing replies. Upstream failures and approval requests never
// surface as transport errors; they become one of these.
const (
	ApprovalPrompt = "為了提供漫遊建議，我需要查詢方案與您的用量資料，請問您同意嗎？（回覆「可以」即同意）"
	ApologyReply   = "抱歉，系統暫時無法處理您的訊息，請稍後再試一次。"
)

// ChatService turns one inbound user message into one assistant reply,
// suspending and resuming the reasoning layer around user approvals.
type ChatService struct {
	store           sessionstore.Store
	runner          agentrun.Runner
	classifier      intent.Classifier
	gates           gate.Table
	hub             *ws.Hub
	metrics         *otelad.Metrics
	maxResumeRounds int
	locks           keyedMutex
	now             func() time.Time
}

// NewChatService wires the orchestration engine. hub and metrics may be nil.
func NewChatService(
	store sessionstore.Store,
	runner agentrun.Runner,
	classifier intent.Classifier,
	gates gate.Table,
	hub *ws.Hub,
	metrics *otelad.Metrics,
	maxResumeRounds int,
) *ChatService {
	return &ChatService{
		store:           store,
		runner:          runner,
		classifier:      classifier,
		gates:           gates,
		hub:             hub,
		metrics:         metrics,
		maxResumeRounds: maxResumeRounds,
		now:             time.Now,
	}
}

// HandleTurn processes one user message against an existing session and
// returns the updated session snapshot and the assistant reply. Turns on the
// same session are serialized; the store itself stays last-writer-wins.
func (c *ChatService) HandleTurn(ctx context.Context, sessionID, message string) (*session.Session, string, error) {
	unlock := c.locks.lock(sessionID)
	defer unlock()

	sess, ok := c.store.Get(sessionID)
	if !ok {
		return nil, "", domain.ErrNotFound
	}

	ctx, span := otelad.StartTurnSpan(ctx, sess.ID, sess.UserID)
	defer span.End()

	started := c.now()
	reply, skipHeuristics := c.resolveReply(ctx, sess, message)

	if !skipHeuristics {
		c.advanceIntent(ctx, sess, message)
	}

	sess.Append("user", message, c.now())
	sess.Append("assistant", reply, c.now())

	updated, ok := c.store.Update(sess.ID, func(s *session.Session) {
		*s = *sess
	})
	if !ok {
		// The session expired between Get and Update. The reply still stands;
		// the caller will get a not-found on the next turn.
		slog.Warn("session vanished mid-turn", "session_id", sess.ID)
		updated = sess
	}

	if c.metrics != nil {
		c.metrics.TurnsHandled.Add(ctx, 1)
		c.metrics.TurnDuration.Record(ctx, c.now().Sub(started).Seconds())
	}
	return updated, reply, nil
}

// resolveReply runs the suspend/resume protocol for one turn and mutates sess
// in place. The second return value is true when the turn ended as an
// idempotent re-ask for approval, which must not advance intent or phase.
func (c *ChatService) resolveReply(ctx context.Context, sess *session.Session, message string) (string, bool) {
	// A suspended conversation consumes this message as the approval decision.
	if sess.Pending != nil {
		if !c.classifier.IsApproval(message) {
			if c.metrics != nil {
				c.metrics.ApprovalsDeclined.Add(ctx, 1)
			}
			return ApprovalPrompt, true
		}

		pending := sess.Pending
		handles := approvalHandles(pending.PendingCalls)
		rctx, span := otelad.StartResumeSpan(ctx, sess.ID, len(handles))
		res, err := c.runner.Resume(rctx, agentrun.ContinuationToken(pending.ContinuationToken), handles)
		span.End()
		if err != nil {
			// The resume never started, so the suspension stays in place and
			// the same approval can be retried on the next message.
			slog.Error("resume failed", "session_id", sess.ID, "error", err)
			if c.metrics != nil {
				c.metrics.TurnsFailed.Add(ctx, 1)
			}
			return ApologyReply, false
		}

		sess.Pending = nil
		if c.metrics != nil {
			c.metrics.ApprovalsGranted.Add(ctx, 1)
		}
		if c.hub != nil {
			c.hub.BroadcastEvent(ctx, ws.EventApprovalResolved, ws.ApprovalResolvedEvent{
				SessionID: sess.ID,
				Approved:  true,
			})
		}
		return c.settleRun(ctx, sess, message, res)
	}

	// Fresh run. The gate table decides whether the reasoning layer may call
	// its capabilities without asking.
	res, err := c.runner.Run(ctx, agentrun.RunInput{
		SessionID:   sess.ID,
		UserID:      sess.UserID,
		Message:     message,
		Destination: sess.Intent.Destination,
		AutoApprove: c.gates.Allows(sess),
	})
	if err != nil {
		slog.Error("run failed", "session_id", sess.ID, "error", err)
		if c.metrics != nil {
			c.metrics.TurnsFailed.Add(ctx, 1)
		}
		return ApologyReply, false
	}
	return c.settleRun(ctx, sess, message, res)
}

// settleRun inspects a run result, approving and resuming as long as the
// triggering message itself carries approval, until the run completes,
// suspends, or the resume-round cap trips.
func (c *ChatService) settleRun(ctx context.Context, sess *session.Session, message string, res *agentrun.RunResult) (string, bool) {
	for rounds := 0; res.Suspended(); rounds++ {
		if !c.classifier.IsApproval(message) {
			sess.Pending = &session.PendingApproval{
				ContinuationToken: string(res.Continuation),
				PendingCalls:      res.PendingCalls,
			}
			slog.Info("turn suspended awaiting approval",
				"session_id", sess.ID,
				"pending_calls", len(res.PendingCalls),
			)
			if c.metrics != nil {
				c.metrics.RunsSuspended.Add(ctx, 1)
			}
			if c.hub != nil {
				c.hub.BroadcastEvent(ctx, ws.EventApprovalRequested, ws.ApprovalRequestedEvent{
					SessionID: sess.ID,
					UserID:    sess.UserID,
					Calls:     res.PendingCalls,
				})
			}
			return ApprovalPrompt, false
		}

		if rounds >= c.maxResumeRounds {
			slog.Error("resume rounds exhausted", "session_id", sess.ID, "rounds", rounds)
			if c.metrics != nil {
				c.metrics.TurnsFailed.Add(ctx, 1)
			}
			return ApologyReply, false
		}

		next, err := c.runner.Resume(ctx, res.Continuation, approvalHandles(res.PendingCalls))
		if err != nil {
			slog.Error("resume failed", "session_id", sess.ID, "error", err)
			if c.metrics != nil {
				c.metrics.TurnsFailed.Add(ctx, 1)
			}
			return ApologyReply, false
		}
		res = next
	}

	// Terminal result. Artifacts stick to the session; once set they are not
	// cleared for the session's lifetime.
	if len(res.Plans) > 0 {
		sess.Plans = res.Plans
	}
	if res.Usage != nil {
		sess.Usage = res.Usage
	}
	if res.Recommendation != "" {
		sess.Recommendation = res.Recommendation
	}
	return res.Output, false
}

// advanceIntent applies the keyword heuristics for the turn and moves the
// phase machine accordingly.
func (c *ChatService) advanceIntent(ctx context.Context, sess *session.Session, message string) {
	from := sess.Phase

	switch sess.Phase {
	case session.PhaseIntentDetection:
		if dest, ok := c.classifier.DetectDestination(message); ok {
			sess.Intent.Destination = dest
			sess.Intent.DetectedAt = c.now()
			session.Transition(sess, session.PhaseConfirmation)
		}

	case session.PhaseConfirmation:
		// Confirmation doubles as approval: one signal, no second prompt.
		if c.classifier.IsConfirmation(message) {
			sess.Intent.Confirmed = true
			sess.Intent.UserApproved = true
			sess.Intent.ConfirmedAt = c.now()
			session.Transition(sess, session.PhaseApproval)
			session.Transition(sess, session.PhaseDataCollection)
		}

	case session.PhaseApproval:
		if c.classifier.IsApproval(message) {
			sess.Intent.UserApproved = true
			session.Transition(sess, session.PhaseDataCollection)
		}
	}

	if sess.Phase == session.PhaseDataCollection && sess.Recommendation != "" {
		session.Transition(sess, session.PhaseRecommendation)
	}

	if c.hub != nil && sess.Phase != from {
		c.hub.BroadcastEvent(ctx, ws.EventSessionPhase, ws.SessionPhaseEvent{
			SessionID: sess.ID,
			From:      from,
			To:        sess.Phase,
		})
	}
}

func approvalHandles(calls []session.PendingCall) []string {
	handles := make([]string, 0, len(calls))
	for _, pc := range calls {
		handles = append(handles, pc.ApprovalHandle)
	}
	return handles
}
