package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulrr/backend/internal/google"
	"github.com/schedulrr/backend/internal/models"
)

type fakeEvents struct {
	event *models.Event
	owner *models.User
	err   error
}

func (f *fakeEvents) GetByIDWithOwner(_ context.Context, _ uuid.UUID) (*models.Event, *models.User, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.event, f.owner, nil
}

type fakeBookings struct {
	created []*models.Booking
	err     error
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	if f.err != nil {
		return f.err
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	f.created = append(f.created, b)
	return nil
}

type fakeCalendar struct {
	result  *google.Result
	err     error
	calls   int
	owner   uuid.UUID
	payload google.Payload
}

func (f *fakeCalendar) Insert(_ context.Context, ownerID uuid.UUID, p google.Payload) (*google.Result, error) {
	f.calls++
	f.owner = ownerID
	f.payload = p
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeNotifier struct {
	calls int
	err   error
	event *models.Event
}

func (f *fakeNotifier) BookingCreated(_ context.Context, event *models.Event, _ *models.Booking) error {
	f.calls++
	f.event = event
	return f.err
}

func newTestEvent(eventType models.EventType, hasVideo bool, videoProvider, chatProvider string) (*models.Event, *models.User) {
	owner := &models.User{ID: uuid.New(), Email: "owner@example.com", Username: "owner"}
	event := &models.Event{
		ID:            uuid.New(),
		UserID:        owner.ID,
		Title:         "Strategy Call",
		EventType:     eventType,
		HasVideo:      hasVideo,
		VideoProvider: videoProvider,
		ChatProvider:  chatProvider,
		Address:       "12 Harbor Rd",
		ContactNumber: "555-0101",
	}
	return event, owner
}

func newTestRequest(eventID uuid.UUID) Request {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	return Request{
		EventID:        eventID,
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		AdditionalInfo: "First intro call",
	}
}

func TestCreateGoogleMeetSuccess(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePublic, true, models.VideoProviderGoogleMeet, "")
	cal := &fakeCalendar{result: &google.Result{EventID: "ev123", HangoutLink: "https://meet.google.com/abc"}}
	store := &fakeBookings{}
	svc := NewService(&fakeEvents{event: event, owner: owner}, store, cal, &fakeNotifier{}, nil)

	booking, meetLink, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/abc", meetLink)
	assert.Equal(t, "ev123", booking.GoogleEventID)
	assert.Equal(t, "https://meet.google.com/abc", booking.MeetLink)
	assert.Equal(t, owner.ID, cal.owner)
	assert.NotEmpty(t, cal.payload.ConferenceRequestID)
	require.Len(t, store.created, 1)
}

func TestCreateEventNotFound(t *testing.T) {
	svc := NewService(&fakeEvents{err: pgx.ErrNoRows}, &fakeBookings{}, &fakeCalendar{}, nil, nil)

	_, _, err := svc.Create(context.Background(), newTestRequest(uuid.New()))

	require.ErrorIs(t, err, ErrEventNotFound)
	assert.Equal(t, "Event not found", err.Error())
}

func TestCreateEventLookupFailure(t *testing.T) {
	svc := NewService(&fakeEvents{err: errors.New("connection refused")}, &fakeBookings{}, &fakeCalendar{}, nil, nil)

	_, _, err := svc.Create(context.Background(), newTestRequest(uuid.New()))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEventNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCreateVideoWithoutCredentialFails(t *testing.T) {
	for _, provider := range []string{models.VideoProviderGoogleMeet, models.VideoProviderZoom} {
		t.Run(provider, func(t *testing.T) {
			event, owner := newTestEvent(models.EventTypePrivate, true, provider, "")
			store := &fakeBookings{}
			svc := NewService(&fakeEvents{event: event, owner: owner}, store, &fakeCalendar{err: google.ErrNotConnected}, nil, nil)

			_, _, err := svc.Create(context.Background(), newTestRequest(event.ID))

			require.ErrorIs(t, err, ErrCalendarNotConnected)
			assert.Contains(t, err.Error(), "not connected")
			assert.Empty(t, store.created)
		})
	}
}

func TestCreateChatWithoutCredentialSucceeds(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePrivate, false, "", models.ChatProviderWhatsApp)
	store := &fakeBookings{}
	svc := NewService(&fakeEvents{event: event, owner: owner}, store, &fakeCalendar{err: google.ErrNotConnected}, nil, nil)

	booking, meetLink, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.NoError(t, err)
	assert.Equal(t, "Chat meeting via WhatsApp", meetLink)
	assert.True(t, strings.HasPrefix(booking.GoogleEventID, "manual-"))
	require.Len(t, store.created, 1)
}

func TestCreateInPersonWithoutCredentialSucceeds(t *testing.T) {
	event, owner := newTestEvent(models.EventTypeInPerson, false, "", "")
	store := &fakeBookings{}
	svc := NewService(&fakeEvents{event: event, owner: owner}, store, &fakeCalendar{err: google.ErrNotConnected}, nil, nil)

	booking, meetLink, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.NoError(t, err)
	assert.Contains(t, meetLink, event.Address)
	assert.Contains(t, booking.MeetLink, event.Address)
	assert.True(t, strings.HasPrefix(booking.GoogleEventID, "manual-"))
}

func TestCreateZoomIgnoresProviderLink(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePrivate, true, models.VideoProviderZoom, "")
	cal := &fakeCalendar{result: &google.Result{EventID: "ev999", HangoutLink: "https://meet.google.com/should-not-be-used"}}
	svc := NewService(&fakeEvents{event: event, owner: owner}, &fakeBookings{}, cal, nil, nil)

	booking, meetLink, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.NoError(t, err)
	assert.Equal(t, zoomLinkPlaceholder, meetLink)
	assert.Equal(t, "ev999", booking.GoogleEventID)
}

func TestCreateProviderErrorFails(t *testing.T) {
	event, owner := newTestEvent(models.EventTypeInPerson, false, "", "")
	store := &fakeBookings{}
	svc := NewService(&fakeEvents{event: event, owner: owner}, store, &fakeCalendar{err: errors.New("googleapi: 500")}, nil, nil)

	_, _, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create calendar event")
	assert.Empty(t, store.created)
}

func TestCreatePersistenceErrorFails(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePrivate, false, "", models.ChatProviderTeams)
	svc := NewService(&fakeEvents{event: event, owner: owner}, &fakeBookings{err: errors.New("connection reset")}, &fakeCalendar{err: google.ErrNotConnected}, nil, nil)

	_, _, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save booking")
}

func TestCreateFallbackIDsAreDistinct(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePrivate, false, "", models.ChatProviderWhatsApp)
	store := &fakeBookings{}
	svc := NewService(&fakeEvents{event: event, owner: owner}, store, &fakeCalendar{err: google.ErrNotConnected}, nil, nil)

	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	first, _, err := svc.Create(context.Background(), newTestRequest(event.ID))
	require.NoError(t, err)
	second, _, err := svc.Create(context.Background(), newTestRequest(event.ID))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.GoogleEventID, "manual-"))
	assert.True(t, strings.HasPrefix(second.GoogleEventID, "manual-"))
	assert.NotEqual(t, first.GoogleEventID, second.GoogleEventID)
}

func TestCreateNotifiesParticipants(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePublic, true, models.VideoProviderGoogleMeet, "")
	event.Participants = []models.Participant{{Name: "Grace", Email: "grace@example.com"}}
	notifier := &fakeNotifier{}
	cal := &fakeCalendar{result: &google.Result{EventID: "ev123", HangoutLink: "https://meet.google.com/abc"}}
	svc := NewService(&fakeEvents{event: event, owner: owner}, &fakeBookings{}, cal, notifier, nil)

	_, _, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, event, notifier.event)
}

func TestCreateNotifierErrorDoesNotFailBooking(t *testing.T) {
	event, owner := newTestEvent(models.EventTypePrivate, false, "", models.ChatProviderWhatsApp)
	notifier := &fakeNotifier{err: errors.New("redis down")}
	svc := NewService(&fakeEvents{event: event, owner: owner}, &fakeBookings{}, &fakeCalendar{err: google.ErrNotConnected}, notifier, nil)

	_, _, err := svc.Create(context.Background(), newTestRequest(event.ID))

	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
}
