package contract

import (
	"time"

	statex "github.com/techflow/ai-recruiter/agent/state"
)

type AgentType string

const (
	AgentTypeExit     AgentType = "exit"
	AgentTypeInfo     AgentType = "info"
	AgentTypeScreener AgentType = "screener"
)

// RoutingAction is the tagged-variant outcome of one orchestration step.
// Exactly one action is taken per turn; the value doubles as the route tag
// recorded on the assistant Turn.
type RoutingAction string

const (
	ActionContinue      RoutingAction = "CONTINUE"
	ActionRouteInfo     RoutingAction = "ROUTE_INFO"
	ActionRouteSchedule RoutingAction = "ROUTE_SCHEDULE"
	ActionEnd           RoutingAction = "END"
)

// RoutingDecision is transient: recomputed every turn, never persisted.
type RoutingDecision struct {
	Action RoutingAction `json:"action"`
	Reason string        `json:"reason,omitempty"`
}

// ExitDecision is the exit classifier's verdict on the latest message.
type ExitDecision struct {
	Exit       bool    `json:"exit"`
	Confidence float64 `json:"confidence"`
}

// Passage is a retrieved grounding snippet with its similarity score.
type Passage struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Answer is a retrieval-grounded reply to a job-related question.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources,omitempty"`
}

type SlotOffer struct {
	ID              string    `json:"id"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Position        string    `json:"position"`
	Available       bool      `json:"available"`
}

type Booking struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	SlotID    string    `json:"slot_id"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// SlotConstraints narrows a slot listing. Around, when set, orders results by
// proximity to that instant instead of chronologically.
type SlotConstraints struct {
	From     time.Time
	Around   *time.Time
	Position string
	Limit    int
}

// SchedulingReply is one scheduling-advisor turn. Booking is non-nil only on
// the turn a booking was confirmed.
type SchedulingReply struct {
	Reply   string
	Booking *Booking
}

// TurnResult is the caller-facing outcome of submitting one message.
type TurnResult struct {
	Reply    string
	Phase    statex.Phase
	Route    RoutingAction
	Degraded bool
}
