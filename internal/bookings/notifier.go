package bookings

import (
	"context"

	"github.com/schedulrr/backend/internal/models"
	"github.com/schedulrr/backend/pkg/queue"
)

// QueueNotifier enqueues booking notification jobs for the background worker.
type QueueNotifier struct {
	queue *queue.Queue
}

// NewQueueNotifier creates a queue-backed notifier.
func NewQueueNotifier(q *queue.Queue) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

// BookingCreated enqueues a confirmation email for the attendee and, for
// PUBLIC events with registered participants, a notice per participant.
func (n *QueueNotifier) BookingCreated(ctx context.Context, event *models.Event, booking *models.Booking) error {
	err := n.queue.EnqueueBookingConfirmation(ctx, queue.BookingConfirmationPayload{
		BookingID:      booking.ID,
		EventID:        event.ID,
		RecipientEmail: booking.Email,
		RecipientName:  booking.Name,
		EventTitle:     event.Title,
		MeetLink:       booking.MeetLink,
		StartTime:      booking.StartTime,
	})
	if err != nil {
		return err
	}

	if event.EventType != models.EventTypePublic || len(event.Participants) == 0 {
		return nil
	}
	recipients := make([]queue.Recipient, 0, len(event.Participants))
	for _, p := range event.Participants {
		recipients = append(recipients, queue.Recipient{Name: p.Name, Email: p.Email})
	}
	return n.queue.EnqueueParticipantNotice(ctx, queue.ParticipantNoticePayload{
		BookingID:    booking.ID,
		EventID:      event.ID,
		EventTitle:   event.Title,
		AttendeeName: booking.Name,
		StartTime:    booking.StartTime,
		Recipients:   recipients,
	})
}
