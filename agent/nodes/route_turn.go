package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	schedulex "github.com/techflow/ai-recruiter/agent/schedule"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

var scheduleKeywords = []string{
	"schedule", "interview", "book", "appointment", "a call",
	"meet", "when can we", "set something up",
}

// RouteTurn picks exactly one action for the turn. Exit intent outranks
// everything; a session already in scheduling stays with the scheduler;
// otherwise questions go to retrieval and scheduling intent moves the
// conversation forward only once screening is complete. When exit
// classification could not be obtained at all, the turn falls back to the
// generic screening continuation rather than any specialist.
func RouteTurn(in *GraphState, info contractx.InfoAdvisor, exitThreshold float64) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Decision = routeDecision(in, info, exitThreshold)
	return in, nil
}

func routeDecision(in *GraphState, info contractx.InfoAdvisor, exitThreshold float64) contractx.RoutingDecision {
	sess := in.Session

	if in.EmptyMessage {
		return contractx.RoutingDecision{Action: contractx.ActionContinue, Reason: "empty message"}
	}
	if sess.Ended() {
		return contractx.RoutingDecision{Action: contractx.ActionContinue, Reason: "session already ended"}
	}
	if in.ExitDegraded {
		return contractx.RoutingDecision{Action: contractx.ActionContinue, Reason: "exit classification unavailable"}
	}
	if in.ExitDecision.Exit && in.ExitDecision.Confidence >= exitThreshold {
		return contractx.RoutingDecision{Action: contractx.ActionEnd, Reason: "exit intent detected"}
	}
	if sess.Phase == statex.PhaseScheduling {
		return contractx.RoutingDecision{Action: contractx.ActionRouteSchedule, Reason: "scheduling in progress"}
	}
	if info.NeedsRetrieval(in.Text) {
		return contractx.RoutingDecision{Action: contractx.ActionRouteInfo, Reason: "job question"}
	}
	if wantsToSchedule(in) {
		if !sess.ScreeningComplete {
			return contractx.RoutingDecision{Action: contractx.ActionContinue, Reason: "screening incomplete"}
		}
		return contractx.RoutingDecision{Action: contractx.ActionRouteSchedule, Reason: "scheduling intent"}
	}
	return contractx.RoutingDecision{Action: contractx.ActionContinue, Reason: "screening"}
}

func wantsToSchedule(in *GraphState) bool {
	lower := strings.ToLower(in.Text)
	for _, kw := range scheduleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	_, ok := schedulex.ParseDateTime(lower, in.Session.StartedAt)
	return ok
}
