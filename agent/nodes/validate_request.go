package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

var ErrInvalidSession = errors.New("session id is empty")

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply    string
	Phase    statex.Phase
	Route    contractx.RoutingAction
	Degraded bool
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	// EmptyMessage marks a blank candidate message. The turn short-circuits
	// to a clarification reply and no advisor is called.
	EmptyMessage bool

	Session *statex.Session

	ExitDecision contractx.ExitDecision
	ExitDegraded bool

	Decision contractx.RoutingDecision

	Reply           string
	Booking         *contractx.Booking
	SpecialistError bool
}

// ValidateRequest checks the inbound turn. A blank message is not an error,
// the candidate just gets asked to repeat themselves.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)

	return &GraphState{
		SessionID:    sessionID,
		Text:         text,
		Now:          nowFn().UTC(),
		EmptyMessage: text == "",
	}, nil
}
