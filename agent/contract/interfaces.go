package contract

import (
	"context"

	statex "github.com/techflow/ai-recruiter/agent/state"
)

// ExitClassifier detects exit intent and composes the farewell that closes a
// session. Classify is best-effort deterministic; callers rely on the
// confidence value, never on exact repeatability.
type ExitClassifier interface {
	Classify(ctx context.Context, history []statex.Turn, message string) (ExitDecision, error)
	Farewell(ctx context.Context, history []statex.Turn, booked bool) (string, error)
}

// InfoAdvisor answers job-related questions grounded in retrieved passages.
// NeedsRetrieval is the advisor's own relevance check; the orchestrator makes
// no separate classification call for it.
type InfoAdvisor interface {
	NeedsRetrieval(message string) bool
	Answer(ctx context.Context, question string, history []statex.Turn) (Answer, error)
}

// SchedulingAdvisor drives the slot-offer/confirm flow. It may record a
// pending slot on the session; persisting the session stays with the caller.
type SchedulingAdvisor interface {
	HandleTurn(ctx context.Context, sess *statex.Session, message string) (SchedulingReply, error)
}

// Screener produces the default continuation response that keeps the
// screening conversation moving.
type Screener interface {
	Respond(ctx context.Context, history []statex.Turn, message string) (string, error)
}

type Registry interface {
	Exit() ExitClassifier
	Info() InfoAdvisor
	Scheduler() SchedulingAdvisor
	Screener() Screener
}

// Embedder turns a query into the vector the retrieval index is keyed on.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever queries the external vector index for the top-k nearest passages.
type Retriever interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Passage, error)
}

// SlotStore is the scheduling data store. Book must be atomic with respect to
// slot availability; the store's transactional guarantees enforce that, not
// in-process locking.
type SlotStore interface {
	ListSlots(ctx context.Context, c SlotConstraints) ([]SlotOffer, error)
	Book(ctx context.Context, sessionID, slotID string) (Booking, error)
}

// Notifier dispatches the calendar invite for a confirmed booking.
// Delivery is best-effort; failures must not fail the turn.
type Notifier interface {
	PublishInvite(ctx context.Context, b Booking) error
}
