package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

const defaultListLimit = 3

type schedulingIntent string

const (
	intentRequestAvailability schedulingIntent = "REQUEST_AVAILABILITY"
	intentProposeTime         schedulingIntent = "PROPOSE_TIME"
	intentConfirmBooking      schedulingIntent = "CONFIRM_BOOKING"
	intentOther               schedulingIntent = "OTHER"
)

var (
	affirmativePhrases = []string{
		"yes", "yeah", "yep", "sure", "sounds good", "that works",
		"let's do it", "lets do it", "perfect", "confirm", "book it", "okay", "ok",
	}
	availabilityPhrases = []string{
		"available", "availability", "what times", "which times",
		"when can", "what days", "options", "times work",
	}
)

// Advisor handles the scheduling leg of the conversation: offering slots,
// matching proposed times against the store, and confirming bookings.
type Advisor struct {
	store     contractx.SlotStore
	notifier  contractx.Notifier
	position  string
	listLimit int
	now       func() time.Time
}

func NewAdvisor(store contractx.SlotStore, notifier contractx.Notifier, position string) *Advisor {
	return &Advisor{
		store:     store,
		notifier:  notifier,
		position:  position,
		listLimit: defaultListLimit,
		now:       time.Now,
	}
}

func (a *Advisor) HandleTurn(ctx context.Context, sess *statex.Session, message string) (contractx.SchedulingReply, error) {
	if sess == nil {
		return contractx.SchedulingReply{}, fmt.Errorf("%w: session is nil", contractx.ErrValidation)
	}
	if sess.BookingID != "" {
		return contractx.SchedulingReply{
			Reply: "You're all set! Your interview is already booked and the calendar invite is on its way.",
		}, nil
	}

	ref := sess.StartedAt
	if ref.IsZero() {
		ref = a.now()
	}

	switch a.classifyIntent(sess, message, ref) {
	case intentRequestAvailability:
		return a.handleAvailability(ctx)
	case intentProposeTime:
		return a.handleProposal(ctx, sess, message, ref)
	case intentConfirmBooking:
		return a.handleConfirmation(ctx, sess)
	default:
		return a.handleGeneralInquiry(ctx)
	}
}

func (a *Advisor) classifyIntent(sess *statex.Session, message string, ref time.Time) schedulingIntent {
	lower := strings.ToLower(message)

	if sess.PendingSlotID != "" && containsAny(lower, affirmativePhrases) {
		return intentConfirmBooking
	}
	if _, ok := ParseDateTime(lower, ref); ok {
		return intentProposeTime
	}
	if containsAny(lower, availabilityPhrases) {
		return intentRequestAvailability
	}
	return intentOther
}

func (a *Advisor) handleAvailability(ctx context.Context) (contractx.SchedulingReply, error) {
	offers, err := a.store.ListSlots(ctx, contractx.SlotConstraints{
		Position: a.position,
		Limit:    a.listLimit,
	})
	if err != nil {
		return contractx.SchedulingReply{}, err
	}
	if len(offers) == 0 {
		return contractx.SchedulingReply{
			Reply: "I'd be happy to help schedule an interview. What days and times generally work for you?",
		}, nil
	}
	return contractx.SchedulingReply{
		Reply: "Here are some available interview times:\n" + formatOffers(offers) + "\n\nWhich works best for you?",
	}, nil
}

func (a *Advisor) handleProposal(ctx context.Context, sess *statex.Session, message string, ref time.Time) (contractx.SchedulingReply, error) {
	proposed, ok := ParseDateTime(message, ref)
	if !ok {
		return contractx.SchedulingReply{
			Reply: "Could you specify the exact date and time you're thinking of? For example, 'Tuesday at 10 AM'.",
		}, nil
	}

	offers, err := a.store.ListSlots(ctx, contractx.SlotConstraints{
		Position: a.position,
		Around:   &proposed,
		Limit:    a.listLimit,
	})
	if err != nil {
		return contractx.SchedulingReply{}, err
	}
	if len(offers) == 0 {
		return contractx.SchedulingReply{
			Reply: "That time isn't available. Could you suggest another day or time?",
		}, nil
	}

	nearest := offers[0]
	sess.PendingSlotID = nearest.ID
	sess.Touch(a.now())

	if nearest.StartsAt.Equal(proposed) {
		return contractx.SchedulingReply{
			Reply: fmt.Sprintf("Let me check... Yes, %s is available! Shall I book that for you?", formatSlotTime(nearest.StartsAt)),
		}, nil
	}
	return contractx.SchedulingReply{
		Reply: fmt.Sprintf("That exact time isn't open, but the closest I have is %s. Would that work for you?", formatSlotTime(nearest.StartsAt)),
	}, nil
}

func (a *Advisor) handleConfirmation(ctx context.Context, sess *statex.Session) (contractx.SchedulingReply, error) {
	if sess.PendingSlotID == "" {
		return contractx.SchedulingReply{
			Reply: "Great! Just to confirm, which time slot would you like me to book?",
		}, nil
	}

	booking, err := a.store.Book(ctx, sess.ID, sess.PendingSlotID)
	switch {
	case err == nil:
	case errors.Is(err, contractx.ErrSlotTaken):
		sess.PendingSlotID = ""
		sess.Touch(a.now())
		reply, listErr := a.handleAvailability(ctx)
		if listErr != nil {
			return contractx.SchedulingReply{
				Reply: "I apologize, that slot was just taken. Could you suggest another day or time?",
			}, nil
		}
		return contractx.SchedulingReply{
			Reply: "I apologize, that slot was just taken. " + reply.Reply,
		}, nil
	case errors.Is(err, contractx.ErrBookingExists):
		return contractx.SchedulingReply{
			Reply: "You already have an interview booked for this conversation. The calendar invite is on its way.",
		}, nil
	default:
		return contractx.SchedulingReply{}, err
	}

	if a.notifier != nil {
		if err := a.notifier.PublishInvite(ctx, booking); err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID).Msg("calendar invite publish failed")
		}
	}

	return contractx.SchedulingReply{
		Reply:   "Excellent! I've confirmed your interview. You'll receive a calendar invitation shortly via email.",
		Booking: &booking,
	}, nil
}

func (a *Advisor) handleGeneralInquiry(ctx context.Context) (contractx.SchedulingReply, error) {
	offers, err := a.store.ListSlots(ctx, contractx.SlotConstraints{
		Position: a.position,
		Limit:    a.listLimit,
	})
	if err != nil {
		return contractx.SchedulingReply{}, err
	}
	if len(offers) == 0 {
		return contractx.SchedulingReply{
			Reply: "I'd love to schedule an interview with you. What days and times generally work for you?",
		}, nil
	}
	return contractx.SchedulingReply{
		Reply: "I'd love to schedule an interview with you. Here are some available times:\n" + formatOffers(offers) + "\n\nWhich works best?",
	}, nil
}

func formatOffers(offers []contractx.SlotOffer) string {
	lines := make([]string, 0, len(offers))
	for _, o := range offers {
		lines = append(lines, "- "+formatSlotTime(o.StartsAt))
	}
	return strings.Join(lines, "\n")
}

func formatSlotTime(t time.Time) string {
	return t.Format("Monday, January 2 at 15:04")
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
