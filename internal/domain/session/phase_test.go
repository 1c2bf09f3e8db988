package session

import "testing"

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseIntentDetection, PhaseConfirmation, true},
		{PhaseIntentDetection, PhaseApproval, false},
		{PhaseIntentDetection, PhaseRecommendation, false},
		{PhaseConfirmation, PhaseApproval, true},
		{PhaseConfirmation, PhaseIntentDetection, true},
		{PhaseConfirmation, PhaseDataCollection, false},
		{PhaseApproval, PhaseDataCollection, true},
		{PhaseApproval, PhaseConfirmation, true},
		{PhaseApproval, PhaseIntentDetection, false},
		{PhaseDataCollection, PhaseRecommendation, true},
		{PhaseDataCollection, PhaseConfirmation, false},
		{PhaseRecommendation, PhaseIntentDetection, false},
		{PhaseRecommendation, PhaseRecommendation, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransitionAppliesOnSuccess(t *testing.T) {
	s := &Session{ID: "s1", Phase: PhaseIntentDetection}
	if !Transition(s, PhaseConfirmation) {
		t.Fatal("expected transition to succeed")
	}
	if s.Phase != PhaseConfirmation {
		t.Errorf("phase not applied: %s", s.Phase)
	}
}

func TestInvalidTransitionLeavesPhaseUnchanged(t *testing.T) {
	s := &Session{ID: "s1", Phase: PhaseRecommendation}
	if Transition(s, PhaseIntentDetection) {
		t.Fatal("terminal phase must reject all transitions")
	}
	if s.Phase != PhaseRecommendation {
		t.Errorf("phase mutated by rejected transition: %s", s.Phase)
	}
}

func TestAppendDropsOldestBeyondCap(t *testing.T) {
	s := &Session{}
	for i := 0; i < MaxMessages+3; i++ {
		s.Append("user", "m", s.CreatedAt)
	}
	if len(s.Messages) != MaxMessages {
		t.Errorf("expected %d messages, got %d", MaxMessages, len(s.Messages))
	}
}
