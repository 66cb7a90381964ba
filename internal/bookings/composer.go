package bookings

import (
	"fmt"
	"time"

	"github.com/schedulrr/backend/internal/google"
	"github.com/schedulrr/backend/internal/models"
)

// Join-link placeholders for modes that have no provider-generated link.
const (
	zoomLinkPlaceholder = "Zoom meeting link will be provided via email"
	fallbackMeetLink    = "Meeting details will be provided"
)

// Mode is the meeting mode of an event, resolved once per booking. Exactly one
// variant applies: a physical location overrides video, video overrides chat.
type Mode interface {
	// description builds the calendar description from the booking's additional info.
	description(additionalInfo string) string
	// joinLink is the user-facing link for this mode, before any provider override.
	joinLink() string
	// requiresCalendar reports whether a missing owner credential aborts the booking.
	requiresCalendar() bool
}

// InPerson meetings carry the event's address and contact number.
type InPerson struct {
	Address       string
	ContactNumber string
}

// VideoMeet requests Google Meet conference data on the calendar event.
type VideoMeet struct{}

// VideoZoom creates a plain calendar event; connection details are sent separately.
type VideoZoom struct{}

// ChatTeams and ChatWhatsApp create plain calendar events naming the chat channel.
type ChatTeams struct{}
type ChatWhatsApp struct{}

func (m InPerson) description(info string) string {
	return fmt.Sprintf("%s\n\nLocation: %s\nContact: %s", info, m.Address, m.ContactNumber)
}
func (m InPerson) joinLink() string      { return "In-person meeting at: " + m.Address }
func (m InPerson) requiresCalendar() bool { return false }

func (VideoMeet) description(info string) string { return info }
func (VideoMeet) joinLink() string               { return "" } // provider link, read back on insert
func (VideoMeet) requiresCalendar() bool         { return true }

func (VideoZoom) description(info string) string {
	return info + "\n\nZoom meeting details will be provided separately."
}
func (VideoZoom) joinLink() string       { return zoomLinkPlaceholder }
func (VideoZoom) requiresCalendar() bool { return true }

func (ChatTeams) description(info string) string { return info + "\n\nChat via Microsoft Teams" }
func (ChatTeams) joinLink() string               { return "Chat meeting via Microsoft Teams" }
func (ChatTeams) requiresCalendar() bool         { return false }

func (ChatWhatsApp) description(info string) string { return info + "\n\nChat via WhatsApp" }
func (ChatWhatsApp) joinLink() string               { return "Chat meeting via WhatsApp" }
func (ChatWhatsApp) requiresCalendar() bool         { return false }

// ModeOf selects the meeting mode from an event's configuration.
func ModeOf(e *models.Event) Mode {
	switch {
	case e.EventType == models.EventTypeInPerson:
		return InPerson{Address: e.Address, ContactNumber: e.ContactNumber}
	case e.HasVideo:
		if e.VideoProvider == models.VideoProviderGoogleMeet {
			return VideoMeet{}
		}
		return VideoZoom{}
	case e.ChatProvider == models.ChatProviderTeams:
		return ChatTeams{}
	default:
		return ChatWhatsApp{}
	}
}

// Compose produces the calendar payload for a booking. Pure and deterministic
// given its inputs; now feeds the conference request id so repeated provider
// retries of the same submission dedup server-side.
func Compose(event *models.Event, owner *models.User, req Request, mode Mode, now time.Time) google.Payload {
	p := google.Payload{
		Summary:     fmt.Sprintf("%s - %s", req.Name, event.Title),
		Description: mode.description(req.AdditionalInfo),
		Start:       req.StartTime,
		End:         req.EndTime,
		Attendees:   []string{req.Email, owner.Email},
	}
	switch m := mode.(type) {
	case InPerson:
		p.Location = m.Address
	case VideoMeet:
		p.ConferenceRequestID = fmt.Sprintf("%s-%d", event.ID, now.UnixMilli())
	}
	return p
}
