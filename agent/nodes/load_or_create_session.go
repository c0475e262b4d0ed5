package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

func LoadOrCreateSession(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	position string,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := loadOrCreateSession(ctx, store, in.SessionID, position, in.Now)
	if err != nil {
		return nil, err
	}
	in.Session = sess

	sess.AppendTurn(statex.RoleCandidate, in.Text, "", in.Now)
	if !in.EmptyMessage && !sess.Ended() {
		sess.RecordScreeningSignals(in.Text)
	}
	return in, nil
}

func loadOrCreateSession(
	ctx context.Context,
	store statex.Store,
	sessionID string,
	position string,
	now time.Time,
) (*statex.Session, error) {
	sess, err := store.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, statex.ErrStateNotFound) {
		return nil, err
	}

	return statex.NewSession(sessionID, position, now), nil
}
