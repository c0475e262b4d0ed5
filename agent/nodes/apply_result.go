package orchestratornode

import (
	"fmt"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

// ApplyResult records the recruiter turn and advances the phase machine.
// A failed advisor appends its degraded reply but moves nothing else: the
// phase only changes on the back of a successful action.
func ApplyResult(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess := in.Session
	wasEnded := sess.Ended()

	sess.AppendTurn(statex.RoleRecruiter, in.Reply, string(in.Decision.Action), in.Now)

	if wasEnded || in.EmptyMessage || in.SpecialistError {
		return in, nil
	}

	switch in.Decision.Action {
	case contractx.ActionEnd:
		if err := sess.TransitionTo(statex.PhaseEnded, in.Now); err != nil {
			return nil, err
		}

	case contractx.ActionRouteSchedule:
		if in.Booking != nil {
			if err := sess.SetBooking(in.Booking.ID, in.Now); err != nil {
				return nil, err
			}
			if err := sess.TransitionTo(statex.PhaseEnded, in.Now); err != nil {
				return nil, err
			}
			return in, nil
		}
		if sess.Phase == statex.PhaseActive {
			if err := sess.TransitionTo(statex.PhaseScheduling, in.Now); err != nil {
				return nil, err
			}
		}
	}

	return in, nil
}
