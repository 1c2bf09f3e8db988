// Package agentrun defines the port to the external reasoning/tool layer.
package agentrun

import (
	"context"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

// ContinuationToken is an opaque, serialized handle for a suspended run.
// Its internal structure belongs to the runner adapter, not to the core:
// the core only stores it and hands it back on resume.
type ContinuationToken string

// RunInput is the single entry point into the reasoning layer for one turn.
type RunInput struct {
	SessionID   string
	UserID      string
	Message     string
	Destination string
	// AutoApprove is set when the orchestration engine's gating policy allows
	// every capability without asking (the user already approved the intent).
	AutoApprove bool
}

// RunResult reports how a run (or resume) ended. Exactly one of these holds:
// PendingCalls is non-empty and Continuation is set (the run suspended), or
// Output is the terminal reply (the run completed).
type RunResult struct {
	Output       string
	PendingCalls []session.PendingCall
	Continuation ContinuationToken

	// Artifacts the run collected while executing approved capabilities.
	// Populated only on completed runs, and only for capabilities that ran.
	Plans          []roaming.Plan
	Usage          *roaming.Usage
	Recommendation string
}

// Suspended reports whether the run stopped awaiting approval.
func (r *RunResult) Suspended() bool {
	return len(r.PendingCalls) > 0
}

// Runner executes conversational turns that may invoke gated capabilities.
type Runner interface {
	// Run executes a fresh turn. When the run needs unapproved capabilities it
	// returns a suspended result instead of executing them.
	Run(ctx context.Context, in RunInput) (*RunResult, error)

	// Resume restores a suspended run from its continuation token, treating
	// the calls named by approved (approval handles) as approved, and
	// continues execution. Newly gated calls suspend the run again.
	Resume(ctx context.Context, token ContinuationToken, approved []string) (*RunResult, error)
}
