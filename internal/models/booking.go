package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one realized reservation of an Event by an attendee for a time range.
// MeetLink and GoogleEventID are always populated: the orchestrator substitutes
// placeholders when the calendar call could not be completed.
type Booking struct {
	ID             uuid.UUID `json:"id"`
	EventID        uuid.UUID `json:"event_id"`
	UserID         uuid.UUID `json:"user_id"` // event owner, copied from the event
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	MeetLink       string    `json:"meet_link"`
	GoogleEventID  string    `json:"google_event_id"`
	CreatedAt      time.Time `json:"created_at"`
}
