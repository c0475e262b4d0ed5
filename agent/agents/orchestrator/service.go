package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	nodex "github.com/techflow/ai-recruiter/agent/nodes"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

var ErrInvalidSession = nodex.ErrInvalidSession

const (
	defaultExitThreshold = 0.70
	defaultPosition      = "Python Developer"
)

type Config struct {
	// Position names the role candidates are screened for. It is stamped on
	// new sessions and constrains slot listings.
	Position string

	// ExitConfidenceThreshold is the minimum classifier confidence needed to
	// end the conversation on exit intent.
	ExitConfidenceThreshold float64
}

// Orchestrator drives one candidate conversation turn at a time through a
// fixed routing pipeline: exit detection, retrieval-backed answers, interview
// scheduling, or plain screening.
type Orchestrator struct {
	store    statex.Store
	advisors contractx.Registry

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	position      string
	exitThreshold float64

	now func() time.Time
}

func New(store statex.Store, advisors contractx.Registry, cfg Config) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if advisors == nil {
		return nil, errors.New("advisor registry is required")
	}

	position := strings.TrimSpace(cfg.Position)
	if position == "" {
		position = defaultPosition
	}
	threshold := cfg.ExitConfidenceThreshold
	if threshold <= 0 {
		threshold = defaultExitThreshold
	}

	o := &Orchestrator{
		store:         store,
		advisors:      advisors,
		position:      position,
		exitThreshold: threshold,
		now:           time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage processes one candidate message and returns the recruiter
// reply together with the session phase after the turn.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return contractx.TurnResult{}, err
	}
	return contractx.TurnResult{
		Reply:    out.Reply,
		Phase:    out.Phase,
		Route:    out.Route,
		Degraded: out.Degraded,
	}, nil
}
