// Package bookings implements the booking-creation workflow: compose a
// calendar payload for the event's meeting mode, submit it through the
// calendar gateway, and persist the booking.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/schedulrr/backend/internal/google"
	"github.com/schedulrr/backend/internal/models"
)

// Sentinel errors surfaced to callers. Messages are user-facing.
var (
	ErrEventNotFound        = errors.New("Event not found")
	ErrCalendarNotConnected = errors.New("Event creator has not connected Google Calendar")
)

// Request is the input for one booking attempt.
type Request struct {
	EventID        uuid.UUID
	Name           string
	Email          string
	StartTime      time.Time
	EndTime        time.Time
	AdditionalInfo string
}

// EventStore resolves an event together with its owner.
type EventStore interface {
	GetByIDWithOwner(ctx context.Context, id uuid.UUID) (*models.Event, *models.User, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
}

// Calendar submits composed payloads on behalf of an event owner.
type Calendar interface {
	Insert(ctx context.Context, ownerID uuid.UUID, p google.Payload) (*google.Result, error)
}

// Notifier fans out booking notifications. Best-effort: failures are logged,
// never fail the booking.
type Notifier interface {
	BookingCreated(ctx context.Context, event *models.Event, booking *models.Booking) error
}

// Service orchestrates booking creation.
type Service struct {
	events   EventStore
	bookings BookingStore
	calendar Calendar
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a booking service.
func NewService(events EventStore, bookings BookingStore, cal Calendar, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		events:   events,
		bookings: bookings,
		calendar: cal,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create runs one booking attempt: event lookup, payload composition, calendar
// submission, booking insert, participant notification. A missing owner
// credential is fatal only for video modes; for in-person and chat modes the
// booking proceeds without a provider-side event. A calendar event created
// before a failed insert is not rolled back.
func (s *Service) Create(ctx context.Context, req Request) (*models.Booking, string, error) {
	event, owner, err := s.events.GetByIDWithOwner(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrEventNotFound
		}
		return nil, "", fmt.Errorf("load event: %w", err)
	}

	mode := ModeOf(event)
	payload := Compose(event, owner, req, mode, s.now())

	result, err := s.calendar.Insert(ctx, owner.ID, payload)
	if err != nil {
		if !errors.Is(err, google.ErrNotConnected) {
			return nil, "", fmt.Errorf("create calendar event: %w", err)
		}
		if mode.requiresCalendar() {
			return nil, "", ErrCalendarNotConnected
		}
		s.logger.Warn("owner calendar not connected, booking without calendar event",
			zap.String("event_id", event.ID.String()),
			zap.String("owner_id", owner.ID.String()),
		)
		result = nil
	}

	meetLink := mode.joinLink()
	googleEventID := ""
	if result != nil {
		googleEventID = result.EventID
		if _, ok := mode.(VideoMeet); ok {
			meetLink = result.HangoutLink
		}
	}
	if googleEventID == "" {
		googleEventID = fmt.Sprintf("manual-%d", s.now().UnixMilli())
	}
	if meetLink == "" {
		meetLink = fallbackMeetLink
	}

	booking := &models.Booking{
		EventID:        event.ID,
		UserID:         event.UserID,
		Name:           req.Name,
		Email:          req.Email,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AdditionalInfo: req.AdditionalInfo,
		MeetLink:       meetLink,
		GoogleEventID:  googleEventID,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, "", fmt.Errorf("save booking: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.BookingCreated(ctx, event, booking); err != nil {
			s.logger.Warn("booking notification failed",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}

	return booking, meetLink, nil
}
