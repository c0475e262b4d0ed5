package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

type fakeSlotStore struct {
	offers    []contractx.SlotOffer
	listErr   error
	booking   contractx.Booking
	bookErr   error
	bookCalls int
	lastSlot  string
}

func (f *fakeSlotStore) ListSlots(ctx context.Context, c contractx.SlotConstraints) ([]contractx.SlotOffer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.offers, nil
}

func (f *fakeSlotStore) Book(ctx context.Context, sessionID, slotID string) (contractx.Booking, error) {
	f.bookCalls++
	f.lastSlot = slotID
	if f.bookErr != nil {
		return contractx.Booking{}, f.bookErr
	}
	return f.booking, nil
}

type fakeNotifier struct {
	published []contractx.Booking
	err       error
}

func (f *fakeNotifier) PublishInvite(ctx context.Context, b contractx.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, b)
	return nil
}

func newTestSession(t *testing.T) *statex.Session {
	t.Helper()
	return statex.NewSession("sess-1", "Python Developer", time.Date(2026, time.January, 7, 9, 0, 0, 0, time.UTC))
}

func slotAt(id string, at time.Time) contractx.SlotOffer {
	return contractx.SlotOffer{
		ID:              id,
		StartsAt:        at,
		DurationMinutes: 45,
		Position:        "Python Developer",
		Available:       true,
	}
}

func TestHandleTurnAvailabilityRequest(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{offers: []contractx.SlotOffer{
		slotAt("slot-1", time.Date(2026, time.January, 8, 10, 0, 0, 0, time.UTC)),
		slotAt("slot-2", time.Date(2026, time.January, 8, 14, 0, 0, 0, time.UTC)),
	}}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	got, err := advisor.HandleTurn(context.Background(), newTestSession(t), "What times are available?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(got.Reply, "Thursday, January 8 at 10:00") {
		t.Fatalf("reply = %q", got.Reply)
	}
	if got.Booking != nil {
		t.Fatal("availability request must not book")
	}
}

func TestHandleTurnProposalExactMatch(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.January, 8, 10, 0, 0, 0, time.UTC)
	store := &fakeSlotStore{offers: []contractx.SlotOffer{slotAt("slot-1", at)}}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	sess := newTestSession(t)
	got, err := advisor.HandleTurn(context.Background(), sess, "How about tomorrow at 10am?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(got.Reply, "Shall I book that for you?") {
		t.Fatalf("reply = %q", got.Reply)
	}
	if sess.PendingSlotID != "slot-1" {
		t.Fatalf("PendingSlotID = %q, want slot-1", sess.PendingSlotID)
	}
}

func TestHandleTurnProposalNearbyMatch(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{offers: []contractx.SlotOffer{
		slotAt("slot-2", time.Date(2026, time.January, 8, 14, 0, 0, 0, time.UTC)),
	}}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	sess := newTestSession(t)
	got, err := advisor.HandleTurn(context.Background(), sess, "tomorrow at 10am?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(got.Reply, "closest I have") {
		t.Fatalf("reply = %q", got.Reply)
	}
	if sess.PendingSlotID != "slot-2" {
		t.Fatalf("PendingSlotID = %q, want slot-2", sess.PendingSlotID)
	}
}

func TestHandleTurnConfirmBooks(t *testing.T) {
	t.Parallel()

	booking := contractx.Booking{ID: "bk-1", SessionID: "sess-1", SlotID: "slot-1", Confirmed: true}
	store := &fakeSlotStore{booking: booking}
	notifier := &fakeNotifier{}
	advisor := NewAdvisor(store, notifier, "Python Developer")

	sess := newTestSession(t)
	sess.PendingSlotID = "slot-1"

	got, err := advisor.HandleTurn(context.Background(), sess, "Yes, that works!")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if got.Booking == nil || got.Booking.ID != "bk-1" {
		t.Fatalf("booking = %+v", got.Booking)
	}
	if store.lastSlot != "slot-1" {
		t.Fatalf("booked slot = %q", store.lastSlot)
	}
	if len(notifier.published) != 1 || notifier.published[0].ID != "bk-1" {
		t.Fatalf("published = %+v", notifier.published)
	}
}

func TestHandleTurnConfirmWithoutPendingSlot(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	got, err := advisor.HandleTurn(context.Background(), newTestSession(t), "Yes, sounds good!")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if got.Booking != nil {
		t.Fatal("must not book without a pending slot")
	}
	if store.bookCalls != 0 {
		t.Fatalf("bookCalls = %d", store.bookCalls)
	}
}

func TestHandleTurnConfirmSlotTaken(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{
		bookErr: contractx.ErrSlotTaken,
		offers: []contractx.SlotOffer{
			slotAt("slot-9", time.Date(2026, time.January, 9, 10, 0, 0, 0, time.UTC)),
		},
	}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	sess := newTestSession(t)
	sess.PendingSlotID = "slot-1"

	got, err := advisor.HandleTurn(context.Background(), sess, "yes please")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if got.Booking != nil {
		t.Fatal("taken slot must not produce a booking")
	}
	if sess.PendingSlotID != "" {
		t.Fatalf("PendingSlotID = %q, want cleared", sess.PendingSlotID)
	}
	if !strings.Contains(got.Reply, "just taken") {
		t.Fatalf("reply = %q", got.Reply)
	}
	if store.bookCalls != 1 {
		t.Fatalf("bookCalls = %d, a taken slot must not be retried", store.bookCalls)
	}
}

func TestHandleTurnStoreFailurePropagates(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{bookErr: contractx.ErrStoreUnavailable}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	sess := newTestSession(t)
	sess.PendingSlotID = "slot-1"

	_, err := advisor.HandleTurn(context.Background(), sess, "yes")
	if !errors.Is(err, contractx.ErrStoreUnavailable) {
		t.Fatalf("HandleTurn() error = %v, want ErrStoreUnavailable", err)
	}
	if store.bookCalls != 1 {
		t.Fatalf("bookCalls = %d, store failures must not be retried", store.bookCalls)
	}
}

func TestHandleTurnNotifierFailureDoesNotBlockBooking(t *testing.T) {
	t.Parallel()

	booking := contractx.Booking{ID: "bk-1", SessionID: "sess-1", SlotID: "slot-1", Confirmed: true}
	store := &fakeSlotStore{booking: booking}
	advisor := NewAdvisor(store, &fakeNotifier{err: errors.New("qstash down")}, "Python Developer")

	sess := newTestSession(t)
	sess.PendingSlotID = "slot-1"

	got, err := advisor.HandleTurn(context.Background(), sess, "book it")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if got.Booking == nil {
		t.Fatal("booking must succeed even when invite publish fails")
	}
}

func TestHandleTurnAlreadyBookedSession(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	sess := newTestSession(t)
	sess.BookingID = "bk-1"

	got, err := advisor.HandleTurn(context.Background(), sess, "can we reschedule to friday at 2pm?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if got.Booking != nil || store.bookCalls != 0 {
		t.Fatal("a booked session must not book again")
	}
	if !strings.Contains(got.Reply, "already booked") {
		t.Fatalf("reply = %q", got.Reply)
	}
}

func TestHandleTurnGeneralInquiry(t *testing.T) {
	t.Parallel()

	store := &fakeSlotStore{offers: []contractx.SlotOffer{
		slotAt("slot-1", time.Date(2026, time.January, 8, 10, 0, 0, 0, time.UTC)),
	}}
	advisor := NewAdvisor(store, &fakeNotifier{}, "Python Developer")

	got, err := advisor.HandleTurn(context.Background(), newTestSession(t), "I'd like to set something up")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(got.Reply, "Here are some available times") {
		t.Fatalf("reply = %q", got.Reply)
	}
}
