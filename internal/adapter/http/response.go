package http

import (
	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/domain/session"
)

// ChatResponse is the outward payload of the conversation endpoint.
type ChatResponse struct {
	SessionID string        `json:"sessionId"`
	Response  string        `json:"response"`
	Phase     session.Phase `json:"phase"`
	Data      ChatData      `json:"data"`
}

// ChatData carries the optional artifacts collected so far.
type ChatData struct {
	Intent         *session.Intent `json:"intent,omitempty"`
	Usage          *roaming.Usage  `json:"usage,omitempty"`
	Plans          []roaming.Plan  `json:"plans,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// AssembleResponse projects a session and reply into the outward payload.
// Intent appears only once a destination was detected; usage, plans and the
// recommendation appear only when populated. Pure projection, no mutation.
func AssembleResponse(sess *session.Session, reply string) ChatResponse {
	resp := ChatResponse{
		SessionID: sess.ID,
		Response:  reply,
		Phase:     sess.Phase,
	}
	if sess.Intent.Destination != "" {
		in := sess.Intent
		resp.Data.Intent = &in
	}
	if sess.Usage != nil {
		resp.Data.Usage = sess.Usage
	}
	if len(sess.Plans) > 0 {
		resp.Data.Plans = sess.Plans
	}
	if sess.Recommendation != "" {
		resp.Data.Recommendation = sess.Recommendation
	}
	return resp
}
