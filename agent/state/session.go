package state

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Session is the persistent source-of-truth for one candidate conversation.
//   - Lifecycle: Phase moves ACTIVE -> SCHEDULING -> ENDED (or ACTIVE -> ENDED),
//     never backward.
//   - History: Turns is append-only; ordering defines the conversation.
//   - Scheduling: PendingSlotID bridges a proposed slot to its confirmation;
//     BookingID is set at most once.
type Session struct {
	ID       string `json:"id"`
	Position string `json:"position"`
	Phase    Phase  `json:"phase"`
	Turns    []Turn `json:"turns,omitempty"`

	ScreeningSignals  int  `json:"screening_signals"`
	ScreeningComplete bool `json:"screening_complete"`

	PendingSlotID string `json:"pending_slot_id,omitempty"`
	BookingID     string `json:"booking_id,omitempty"`

	AnswerCache map[string]CachedAnswer `json:"answer_cache,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

type Phase string

const (
	PhaseActive     Phase = "ACTIVE"
	PhaseScheduling Phase = "SCHEDULING"
	PhaseEnded      Phase = "ENDED"
)

type TurnRole string

const (
	RoleCandidate TurnRole = "candidate"
	RoleRecruiter TurnRole = "recruiter"
)

// Turn is immutable once appended. Route tags which specialist produced or
// consumed it.
type Turn struct {
	Role    TurnRole  `json:"role"`
	Content string    `json:"content"`
	Route   string    `json:"route,omitempty"`
	At      time.Time `json:"at"`
}

// CachedAnswer lets a repeated identical question reuse its grounding without
// another retrieval round-trip.
type CachedAnswer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources,omitempty"`
}

var (
	ErrInvalidPhase     = errors.New("unknown session phase")
	ErrPhaseTransition  = errors.New("invalid phase transition")
	ErrTurnOrderCorrupt = errors.New("turn history out of order")
	ErrDuplicateBooking = errors.New("session booking already set")
	ErrMissingSessionID = errors.New("session id is empty")
)

func NewSession(id, position string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Position:  position,
		Phase:     PhaseActive,
		StartedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *Session) Ended() bool {
	return s != nil && s.Phase == PhaseEnded
}

// AppendTurn adds a turn to the history. Content is stored as given so the
// record never silently drops what the candidate actually sent.
func (s *Session) AppendTurn(role TurnRole, content, route string, now time.Time) {
	s.Turns = append(s.Turns, Turn{
		Role:    role,
		Content: content,
		Route:   route,
		At:      now.UTC(),
	})
	s.Touch(now)
}

// TransitionTo enforces the forward-only phase machine.
func (s *Session) TransitionTo(next Phase, now time.Time) error {
	if next != PhaseActive && next != PhaseScheduling && next != PhaseEnded {
		return fmt.Errorf("%w: %q", ErrInvalidPhase, next)
	}
	if next == s.Phase {
		return nil
	}
	allowed := false
	switch s.Phase {
	case PhaseActive:
		allowed = next == PhaseScheduling || next == PhaseEnded
	case PhaseScheduling:
		allowed = next == PhaseEnded
	case PhaseEnded:
		allowed = false
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrPhaseTransition, s.Phase, next)
	}
	s.Phase = next
	s.Touch(now)
	return nil
}

// SetBooking records the single booking a session may ever hold.
func (s *Session) SetBooking(bookingID string, now time.Time) error {
	if s.BookingID != "" {
		return fmt.Errorf("%w: %s", ErrDuplicateBooking, s.BookingID)
	}
	s.BookingID = bookingID
	s.PendingSlotID = ""
	s.Touch(now)
	return nil
}

/* --------------------------- Screening progress --------------------------- */

var digitPattern = regexp.MustCompile(`\d+`)

var experienceKeywords = []string{"year", "experience", "worked for", "been working"}

var techKeywords = []string{
	"python", "django", "flask", "aws", "docker", "sql",
	"fastapi", "react", "kubernetes", "cloud",
}

const screeningSignalsRequired = 2

// RecordScreeningSignals tracks screening progress from a candidate message.
// Two or more collected signals complete screening and unlock the SCHEDULING
// transition.
func (s *Session) RecordScreeningSignals(message string) {
	lower := strings.ToLower(message)

	for _, kw := range experienceKeywords {
		if strings.Contains(lower, kw) && digitPattern.MatchString(message) {
			s.ScreeningSignals++
			break
		}
	}
	for _, kw := range techKeywords {
		if strings.Contains(lower, kw) {
			s.ScreeningSignals++
			break
		}
	}

	if s.ScreeningSignals >= screeningSignalsRequired {
		s.ScreeningComplete = true
	}
}

/* ----------------------------- Answer caching ----------------------------- */

// CacheKey normalizes a question so trivially re-worded whitespace or casing
// still hits the cache.
func CacheKey(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}

func (s *Session) CachedAnswerFor(question string) (CachedAnswer, bool) {
	if s == nil || len(s.AnswerCache) == 0 {
		return CachedAnswer{}, false
	}
	ans, ok := s.AnswerCache[CacheKey(question)]
	return ans, ok
}

func (s *Session) CacheAnswer(question string, ans CachedAnswer) {
	if s.AnswerCache == nil {
		s.AnswerCache = make(map[string]CachedAnswer, 4)
	}
	s.AnswerCache[CacheKey(question)] = ans
}

/* ------------------------------ History views ----------------------------- */

// RecentTurns windows the history for external-call payloads. The full record
// stays on the session; only outgoing payloads are capped.
func (s *Session) RecentTurns(n int) []Turn {
	if s == nil || n <= 0 || len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// Transcript renders a Recruiter:/Candidate: transcript of the last n turns
// for prompt construction.
func (s *Session) Transcript(n int) string {
	turns := s.RecentTurns(n)
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch t.Role {
		case RoleRecruiter:
			b.WriteString("Recruiter: ")
		default:
			b.WriteString("Candidate: ")
		}
		b.WriteString(t.Content)
	}
	return b.String()
}

func (s *Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrMissingSessionID
	}
	switch s.Phase {
	case PhaseActive, PhaseScheduling, PhaseEnded:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPhase, s.Phase)
	}
	for i := 1; i < len(s.Turns); i++ {
		if s.Turns[i].At.Before(s.Turns[i-1].At) {
			return fmt.Errorf("%w: turn %d precedes turn %d", ErrTurnOrderCorrupt, i, i-1)
		}
	}
	if s.BookingID != "" && s.PendingSlotID != "" {
		return fmt.Errorf("%w: pending slot with confirmed booking", ErrDuplicateBooking)
	}
	return nil
}
