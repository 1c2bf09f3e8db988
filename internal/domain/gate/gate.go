// Package gate defines the approval policy for gated capabilities.
package gate

import "github.com/Strob0t/RoamGuide/internal/domain/session"

// Capability names exposed to the reasoning layer. The plan→usage→recommend
// ordering lives in the reasoning layer's tool graph; the table only decides
// whether a call may proceed without asking the user.
const (
	CapFetchPlans = "fetch_plans"
	CapFetchUsage = "fetch_usage"
	CapRecommend  = "recommend_plan"
)

// Predicate decides whether a capability may execute for the given session
// without an explicit approval message.
type Predicate func(s *session.Session) bool

// Table maps capability name to its approval predicate, evaluated uniformly
// by the orchestration engine.
type Table map[string]Predicate

// Default returns the standard policy: every capability requires prior user
// approval unless the intent was already approved.
func Default() Table {
	userApproved := func(s *session.Session) bool { return s.Intent.UserApproved }
	return Table{
		CapFetchPlans: userApproved,
		CapFetchUsage: userApproved,
		CapRecommend:  userApproved,
	}
}

// Allows reports whether every capability in the table may execute for s.
func (t Table) Allows(s *session.Session) bool {
	for _, pred := range t {
		if !pred(s) {
			return false
		}
	}
	return true
}
