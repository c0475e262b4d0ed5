package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: advisor returned empty reply", contractx.ErrValidation)
	}

	return GraphOutput{
		Reply:    reply,
		Phase:    in.Session.Phase,
		Route:    in.Decision.Action,
		Degraded: in.ExitDegraded || in.SpecialistError,
	}, nil
}
