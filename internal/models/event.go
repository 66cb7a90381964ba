package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies how an event is exposed and held.
type EventType string

const (
	EventTypePublic   EventType = "PUBLIC"
	EventTypePrivate  EventType = "PRIVATE"
	EventTypeInPerson EventType = "IN_PERSON"
)

// Video conference providers. Only google-meet produces a real join link;
// zoom bookings get a placeholder because no Zoom API integration exists.
const (
	VideoProviderGoogleMeet = "google-meet"
	VideoProviderZoom       = "zoom"
)

// Chat providers for non-video, non-in-person events.
const (
	ChatProviderWhatsApp = "whatsapp"
	ChatProviderTeams    = "teams"
)

// Participant is a pre-registered attendee of a PUBLIC event, notified on each booking.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is a bookable offering definition owned by a user, not a single time instance.
// The meeting-mode fields are mutually exclusive at booking time: IN_PERSON wins over
// HasVideo, HasVideo wins over the chat provider.
type Event struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DurationMinutes int           `json:"duration_minutes"`
	EventType       EventType     `json:"event_type"`
	HasVideo        bool          `json:"has_video"`
	VideoProvider   string        `json:"video_provider,omitempty"` // meaningful only when HasVideo
	ChatProvider    string        `json:"chat_provider,omitempty"`  // meaningful only when !HasVideo and not IN_PERSON
	Address         string        `json:"address,omitempty"`        // IN_PERSON only
	ContactNumber   string        `json:"contact_number,omitempty"` // IN_PERSON only
	Participants    []Participant `json:"participants,omitempty"`   // PUBLIC only
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
