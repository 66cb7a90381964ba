// Package worker processes booking notification jobs: it sends the emails the
// booking workflow enqueued and records every attempt in email_logs.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedulrr/backend/internal/models"
	"github.com/schedulrr/backend/pkg/queue"
)

// EmailLogStore records delivery attempts.
type EmailLogStore interface {
	Create(ctx context.Context, el *models.EmailLog) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// Sender delivers one email.
type Sender interface {
	Send(to, subject, body string) error
}

// NotificationProcessor consumes notification jobs from the queue.
type NotificationProcessor struct {
	emailRepo EmailLogStore
	mailer    Sender
	queue     *queue.Queue
	logger    *zap.Logger
}

// NewNotificationProcessor creates a notification processor.
func NewNotificationProcessor(emailRepo EmailLogStore, m Sender, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{emailRepo: emailRepo, mailer: m, queue: q, logger: logger}
}

// Process executes one notification job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeBookingConfirmation:
		var payload queue.BookingConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		subject := fmt.Sprintf("Booking confirmed: %s", payload.EventTitle)
		body := fmt.Sprintf("Hi %s,\n\nYour booking for %q on %s is confirmed.\n\n%s\n",
			payload.RecipientName, payload.EventTitle, payload.StartTime.Format(time.RFC1123), payload.MeetLink)
		return p.deliver(ctx, models.EmailTypeBookingConfirmation, payload.EventID, payload.BookingID, payload.RecipientEmail, subject, body)

	case queue.JobTypeParticipantNotice:
		var payload queue.ParticipantNoticePayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		subject := fmt.Sprintf("New booking for %s", payload.EventTitle)
		body := fmt.Sprintf("%s booked %q on %s.\n",
			payload.AttendeeName, payload.EventTitle, payload.StartTime.Format(time.RFC1123))
		var firstErr error
		for _, rec := range payload.Recipients {
			if err := p.deliver(ctx, models.EmailTypeParticipantNotice, payload.EventID, payload.BookingID, rec.Email, subject, body); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr

	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// deliver sends one email and records the attempt.
func (p *NotificationProcessor) deliver(ctx context.Context, emailType string, eventID, bookingID uuid.UUID, recipient, subject, body string) error {
	log := &models.EmailLog{
		EventID:        &eventID,
		BookingID:      &bookingID,
		EmailType:      emailType,
		RecipientEmail: recipient,
		Subject:        subject,
	}
	if err := p.emailRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("create email log: %w", err)
	}
	if err := p.mailer.Send(recipient, subject, body); err != nil {
		_ = p.emailRepo.MarkFailed(ctx, log.ID, err.Error())
		return fmt.Errorf("send email: %w", err)
	}
	if err := p.emailRepo.MarkSent(ctx, log.ID, time.Now()); err != nil {
		p.logger.Warn("mark email sent failed", zap.Error(err), zap.String("log_id", log.ID.String()))
	}
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
		}
	}
}
