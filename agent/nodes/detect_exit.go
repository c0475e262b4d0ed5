package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
)

// DetectExit runs the exit classifier on the latest message. The classifier
// gets one retry; if both attempts fail the turn proceeds as CONTINUE with
// the degraded flag set, so a flaky model can never strand the candidate.
func DetectExit(ctx context.Context, in *GraphState, exit contractx.ExitClassifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.EmptyMessage || in.Session.Ended() {
		return in, nil
	}

	history := in.Session.RecentTurns(10)

	decision, err := exit.Classify(ctx, history, in.Text)
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("exit classification failed, retrying once")
		decision, err = exit.Classify(ctx, history, in.Text)
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("exit classification failed twice, continuing")
		in.ExitDegraded = true
		return in, nil
	}

	in.ExitDecision = decision
	return in, nil
}
