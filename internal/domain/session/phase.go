package session

import "log/slog"

// Phase is the conversation's position in the advisory workflow.
type Phase string

const (
	PhaseIntentDetection Phase = "intent-detection"
	PhaseConfirmation    Phase = "confirmation"
	PhaseApproval        Phase = "approval"
	PhaseDataCollection  Phase = "data-collection"
	PhaseRecommendation  Phase = "recommendation" // terminal
)

// transitions maps each phase to the phases it may move to.
var transitions = map[Phase][]Phase{
	PhaseIntentDetection: {PhaseConfirmation},
	PhaseConfirmation:    {PhaseApproval, PhaseIntentDetection},
	PhaseApproval:        {PhaseDataCollection, PhaseConfirmation},
	PhaseDataCollection:  {PhaseRecommendation},
	PhaseRecommendation:  {},
}

// CanTransition reports whether moving from cur to target is allowed.
func CanTransition(cur, target Phase) bool {
	for _, p := range transitions[cur] {
		if p == target {
			return true
		}
	}
	return false
}

// Transition moves s to target if the transition table allows it.
// An invalid transition is a logged no-op: an out-of-order or duplicate
// signal must never abort a conversation.
func Transition(s *Session, target Phase) bool {
	if !CanTransition(s.Phase, target) {
		slog.Warn("phase transition rejected",
			"session_id", s.ID,
			"from", s.Phase,
			"to", target,
		)
		return false
	}
	s.Phase = target
	return true
}
