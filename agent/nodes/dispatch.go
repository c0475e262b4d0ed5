package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	advisorx "github.com/techflow/ai-recruiter/agent/agents/advisor"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

const (
	clarificationReply = "Sorry, I didn't catch that. Could you type your message again?"
	closedReply        = "This conversation has wrapped up. Thank you again for your time!"

	degradedScheduleReply  = "I'm having trouble reaching the interview calendar right now. Could we try again in a moment?"
	degradedScreenerReply  = "Thanks for sharing! Could you tell me a bit more about your Python experience?"
	degradedFarewellReply  = "Thank you for your time. Take care!"
	noRelevantPassageReply = "That's a good question, I don't have that detail on hand, but I can check with the hiring manager. In the meantime, how many years have you worked with Python?"
)

// Dispatch invokes the advisor picked by RouteTurn and fills in the reply.
// Advisor failures never abort the turn: the reply degrades and the flag on
// the result tells the caller what happened.
func Dispatch(ctx context.Context, in *GraphState, registry contractx.Registry) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.EmptyMessage {
		in.Reply = clarificationReply
		return in, nil
	}
	if in.Session.Ended() {
		in.Reply = closedReply
		return in, nil
	}

	history := in.Session.RecentTurns(10)

	switch in.Decision.Action {
	case contractx.ActionEnd:
		booked := in.Session.BookingID != ""
		reply, err := registry.Exit().Farewell(ctx, history, booked)
		if err != nil {
			log.Warn().Err(err).Str("session_id", in.SessionID).Msg("farewell generation failed")
			in.SpecialistError = true
			reply = degradedFarewellReply
		}
		in.Reply = reply

	case contractx.ActionRouteInfo:
		in.Reply = dispatchInfo(ctx, in, registry.Info(), history)

	case contractx.ActionRouteSchedule:
		out, err := registry.Scheduler().HandleTurn(ctx, in.Session, in.Text)
		if err != nil {
			log.Warn().Err(err).Str("session_id", in.SessionID).Msg("scheduling advisor failed")
			in.SpecialistError = true
			in.Reply = degradedScheduleReply
			return in, nil
		}
		in.Reply = out.Reply
		in.Booking = out.Booking

	default:
		reply, err := registry.Screener().Respond(ctx, history, in.Text)
		if err != nil {
			log.Warn().Err(err).Str("session_id", in.SessionID).Msg("screener failed")
			in.SpecialistError = true
			reply = degradedScreenerReply
		}
		in.Reply = reply
	}

	return in, nil
}

func dispatchInfo(ctx context.Context, in *GraphState, info contractx.InfoAdvisor, history []statex.Turn) string {
	if cached, ok := in.Session.CachedAnswerFor(in.Text); ok {
		return cached.Text
	}

	ans, err := info.Answer(ctx, in.Text, history)
	switch {
	case err == nil:
		in.Session.CacheAnswer(in.Text, statex.CachedAnswer{Text: ans.Text, Sources: ans.Sources})
		return ans.Text
	case errors.Is(err, contractx.ErrNoRelevantPassages):
		// An honest "I don't know" is a valid answer, not a degraded turn.
		return noRelevantPassageReply
	default:
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("info advisor failed")
		in.SpecialistError = true
		return advisorx.FallbackInfoReply(in.Text)
	}
}
