package bookings

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulrr/backend/internal/models"
)

func TestModeOf(t *testing.T) {
	tests := []struct {
		name  string
		event models.Event
		want  Mode
	}{
		{
			name:  "in-person wins over video and chat",
			event: models.Event{EventType: models.EventTypeInPerson, HasVideo: true, VideoProvider: models.VideoProviderGoogleMeet, ChatProvider: models.ChatProviderTeams, Address: "1 Main St", ContactNumber: "555-0100"},
			want:  InPerson{Address: "1 Main St", ContactNumber: "555-0100"},
		},
		{
			name:  "video meet",
			event: models.Event{EventType: models.EventTypePublic, HasVideo: true, VideoProvider: models.VideoProviderGoogleMeet},
			want:  VideoMeet{},
		},
		{
			name:  "video zoom",
			event: models.Event{EventType: models.EventTypePrivate, HasVideo: true, VideoProvider: models.VideoProviderZoom},
			want:  VideoZoom{},
		},
		{
			name:  "video wins over chat",
			event: models.Event{EventType: models.EventTypePublic, HasVideo: true, VideoProvider: models.VideoProviderZoom, ChatProvider: models.ChatProviderTeams},
			want:  VideoZoom{},
		},
		{
			name:  "chat teams",
			event: models.Event{EventType: models.EventTypePublic, ChatProvider: models.ChatProviderTeams},
			want:  ChatTeams{},
		},
		{
			name:  "chat whatsapp",
			event: models.Event{EventType: models.EventTypePrivate, ChatProvider: models.ChatProviderWhatsApp},
			want:  ChatWhatsApp{},
		},
		{
			name:  "chat defaults to whatsapp",
			event: models.Event{EventType: models.EventTypePrivate},
			want:  ChatWhatsApp{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeOf(&tt.event))
		})
	}
}

func TestCompose(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	owner := &models.User{ID: uuid.New(), Email: "owner@example.com"}
	req := Request{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		StartTime:      start,
		EndTime:        end,
		AdditionalInfo: "First intro call",
	}

	t.Run("in-person", func(t *testing.T) {
		event := &models.Event{
			ID:            uuid.New(),
			Title:         "Office Hours",
			EventType:     models.EventTypeInPerson,
			Address:       "12 Harbor Rd",
			ContactNumber: "555-0101",
		}
		mode := ModeOf(event)
		p := Compose(event, owner, req, mode, now)

		assert.Equal(t, "Ada Lovelace - Office Hours", p.Summary)
		assert.Equal(t, "First intro call\n\nLocation: 12 Harbor Rd\nContact: 555-0101", p.Description)
		assert.Equal(t, "12 Harbor Rd", p.Location)
		assert.Empty(t, p.ConferenceRequestID)
		assert.Equal(t, []string{"ada@example.com", "owner@example.com"}, p.Attendees)
		assert.Contains(t, mode.joinLink(), event.Address)
	})

	t.Run("google meet requests conference data", func(t *testing.T) {
		event := &models.Event{
			ID:            uuid.New(),
			Title:         "Demo",
			EventType:     models.EventTypePublic,
			HasVideo:      true,
			VideoProvider: models.VideoProviderGoogleMeet,
		}
		mode := ModeOf(event)
		p := Compose(event, owner, req, mode, now)

		require.NotEmpty(t, p.ConferenceRequestID)
		assert.Equal(t, fmt.Sprintf("%s-%d", event.ID, now.UnixMilli()), p.ConferenceRequestID)
		assert.Equal(t, "First intro call", p.Description)
		assert.Empty(t, p.Location)
	})

	t.Run("zoom keeps static placeholder", func(t *testing.T) {
		event := &models.Event{
			ID:            uuid.New(),
			Title:         "Demo",
			HasVideo:      true,
			VideoProvider: models.VideoProviderZoom,
		}
		mode := ModeOf(event)
		p := Compose(event, owner, req, mode, now)

		assert.Empty(t, p.ConferenceRequestID)
		assert.Equal(t, "First intro call\n\nZoom meeting details will be provided separately.", p.Description)
		assert.Equal(t, zoomLinkPlaceholder, mode.joinLink())
	})

	t.Run("chat names the channel", func(t *testing.T) {
		teams := ModeOf(&models.Event{ChatProvider: models.ChatProviderTeams})
		whatsapp := ModeOf(&models.Event{ChatProvider: models.ChatProviderWhatsApp})

		assert.Equal(t, "hi\n\nChat via Microsoft Teams", teams.description("hi"))
		assert.Equal(t, "hi\n\nChat via WhatsApp", whatsapp.description("hi"))
		assert.Equal(t, "Chat meeting via Microsoft Teams", teams.joinLink())
		assert.Equal(t, "Chat meeting via WhatsApp", whatsapp.joinLink())
	})

	t.Run("only video modes require a calendar connection", func(t *testing.T) {
		assert.True(t, VideoMeet{}.requiresCalendar())
		assert.True(t, VideoZoom{}.requiresCalendar())
		assert.False(t, InPerson{}.requiresCalendar())
		assert.False(t, ChatTeams{}.requiresCalendar())
		assert.False(t, ChatWhatsApp{}.requiresCalendar())
	})
}
