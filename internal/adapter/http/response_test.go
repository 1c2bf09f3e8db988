package http

import (
	"testing"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

func TestAssembleResponseMinimalSession(t *testing.T) {
	sess := &session.Session{
		ID:    "s1",
		Phase: session.PhaseIntentDetection,
	}

	resp := AssembleResponse(sess, "您好！")

	if resp.SessionID != "s1" || resp.Response != "您好！" || resp.Phase != session.PhaseIntentDetection {
		t.Errorf("unexpected envelope %+v", resp)
	}
	if resp.Data.Intent != nil {
		t.Error("intent must be absent until a destination is detected")
	}
	if resp.Data.Usage != nil || resp.Data.Plans != nil || resp.Data.Recommendation != "" {
		t.Error("artifacts must be absent until populated")
	}
}

func TestAssembleResponseWithArtifacts(t *testing.T) {
	sess := &session.Session{
		ID:    "s1",
		Phase: session.PhaseRecommendation,
		Intent: session.Intent{
			Destination:  "日本",
			Confirmed:    true,
			UserApproved: true,
		},
		Usage:          &roaming.Usage{UserID: "u1", AvgDailyDataMB: 850},
		Plans:          []roaming.Plan{{ID: "jp-8d", Name: "日本8日10GB"}},
		Recommendation: "日本8日10GB",
	}

	resp := AssembleResponse(sess, "推薦如下。")

	if resp.Data.Intent == nil || resp.Data.Intent.Destination != "日本" {
		t.Error("expected the detected intent in the payload")
	}
	if resp.Data.Usage == nil || len(resp.Data.Plans) != 1 || resp.Data.Recommendation == "" {
		t.Errorf("expected all artifacts, got %+v", resp.Data)
	}
}

func TestAssembleResponseDoesNotMutate(t *testing.T) {
	sess := &session.Session{ID: "s1", Phase: session.PhaseConfirmation}

	AssembleResponse(sess, "reply")

	if sess.Phase != session.PhaseConfirmation || sess.Recommendation != "" || len(sess.Messages) != 0 {
		t.Error("assembly must not mutate the session")
	}
}
