package schedule

import (
	"context"
	"fmt"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	qstashx "github.com/techflow/ai-recruiter/pkg/qstash"
)

type invitePayload struct {
	BookingID string `json:"booking_id"`
	SessionID string `json:"session_id"`
	SlotID    string `json:"slot_id"`
	CreatedAt string `json:"created_at"`
}

// QStashNotifier publishes confirmed bookings to the calendar invite webhook
// through QStash. Delivery is best effort; the booking itself never depends
// on it.
type QStashNotifier struct {
	client      *qstashx.Client
	destination string
}

func NewQStashNotifier(client *qstashx.Client, destination string) *QStashNotifier {
	return &QStashNotifier{client: client, destination: destination}
}

func (n *QStashNotifier) PublishInvite(ctx context.Context, b contractx.Booking) error {
	payload := invitePayload{
		BookingID: b.ID,
		SessionID: b.SessionID,
		SlotID:    b.SlotID,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if err := n.client.Publish(ctx, n.destination, payload); err != nil {
		return fmt.Errorf("publish invite for booking=%s: %w", b.ID, err)
	}
	return nil
}
