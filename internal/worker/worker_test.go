package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulrr/backend/internal/models"
	"github.com/schedulrr/backend/pkg/queue"
)

type fakeEmailLogs struct {
	created   []*models.EmailLog
	sent      []uuid.UUID
	failed    map[uuid.UUID]string
	createErr error
}

func (f *fakeEmailLogs) Create(_ context.Context, el *models.EmailLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	el.ID = uuid.New()
	f.created = append(f.created, el)
	return nil
}

func (f *fakeEmailLogs) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeEmailLogs) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	if f.failed == nil {
		f.failed = map[uuid.UUID]string{}
	}
	f.failed[id] = errMsg
	return nil
}

type fakeSender struct {
	sent    []string // recipient addresses, in order
	failFor map[string]error
}

func (f *fakeSender) Send(to, _, _ string) error {
	f.sent = append(f.sent, to)
	if err, ok := f.failFor[to]; ok {
		return err
	}
	return nil
}

func confirmationJob(t *testing.T) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(queue.BookingConfirmationPayload{
		BookingID:      uuid.New(),
		EventID:        uuid.New(),
		RecipientEmail: "ada@example.com",
		RecipientName:  "Ada Lovelace",
		EventTitle:     "Strategy Call",
		MeetLink:       "https://meet.google.com/abc",
		StartTime:      time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return &queue.Job{ID: "job-1", Type: queue.JobTypeBookingConfirmation, Payload: payload}
}

func noticeJob(t *testing.T, recipients ...queue.Recipient) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(queue.ParticipantNoticePayload{
		BookingID:    uuid.New(),
		EventID:      uuid.New(),
		EventTitle:   "Team Sync",
		AttendeeName: "Ada Lovelace",
		StartTime:    time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
		Recipients:   recipients,
	})
	require.NoError(t, err)
	return &queue.Job{ID: "job-2", Type: queue.JobTypeParticipantNotice, Payload: payload}
}

func TestProcessBookingConfirmation(t *testing.T) {
	logs := &fakeEmailLogs{}
	sender := &fakeSender{}
	p := NewNotificationProcessor(logs, sender, nil, nil)

	err := p.Process(context.Background(), confirmationJob(t))

	require.NoError(t, err)
	require.Len(t, logs.created, 1)
	entry := logs.created[0]
	assert.Equal(t, models.EmailTypeBookingConfirmation, entry.EmailType)
	assert.Equal(t, "ada@example.com", entry.RecipientEmail)
	assert.Contains(t, entry.Subject, "Strategy Call")
	assert.Equal(t, []string{"ada@example.com"}, sender.sent)
	assert.Equal(t, []uuid.UUID{entry.ID}, logs.sent)
	assert.Empty(t, logs.failed)
}

func TestProcessParticipantNoticeFanOut(t *testing.T) {
	logs := &fakeEmailLogs{}
	sender := &fakeSender{}
	p := NewNotificationProcessor(logs, sender, nil, nil)

	err := p.Process(context.Background(), noticeJob(t,
		queue.Recipient{Name: "Grace", Email: "grace@example.com"},
		queue.Recipient{Name: "Alan", Email: "alan@example.com"},
	))

	require.NoError(t, err)
	require.Len(t, logs.created, 2)
	assert.Equal(t, []string{"grace@example.com", "alan@example.com"}, sender.sent)
	assert.Len(t, logs.sent, 2)
	for _, entry := range logs.created {
		assert.Equal(t, models.EmailTypeParticipantNotice, entry.EmailType)
	}
}

func TestProcessFanOutContinuesPastFailure(t *testing.T) {
	logs := &fakeEmailLogs{}
	sender := &fakeSender{failFor: map[string]error{
		"grace@example.com": errors.New("smtp: 550 mailbox unavailable"),
	}}
	p := NewNotificationProcessor(logs, sender, nil, nil)

	err := p.Process(context.Background(), noticeJob(t,
		queue.Recipient{Name: "Grace", Email: "grace@example.com"},
		queue.Recipient{Name: "Alan", Email: "alan@example.com"},
	))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "550 mailbox unavailable")
	// the second recipient is still attempted and delivered
	assert.Equal(t, []string{"grace@example.com", "alan@example.com"}, sender.sent)
	require.Len(t, logs.created, 2)
	assert.Len(t, logs.sent, 1)
	require.Len(t, logs.failed, 1)
	assert.Equal(t, "smtp: 550 mailbox unavailable", logs.failed[logs.created[0].ID])
}

func TestProcessSendFailureMarksFailed(t *testing.T) {
	logs := &fakeEmailLogs{}
	sender := &fakeSender{failFor: map[string]error{
		"ada@example.com": errors.New("dial tcp: connection refused"),
	}}
	p := NewNotificationProcessor(logs, sender, nil, nil)

	err := p.Process(context.Background(), confirmationJob(t))

	require.Error(t, err)
	require.Len(t, logs.created, 1)
	assert.Empty(t, logs.sent)
	assert.Equal(t, "dial tcp: connection refused", logs.failed[logs.created[0].ID])
}

func TestProcessLogCreateFailure(t *testing.T) {
	logs := &fakeEmailLogs{createErr: errors.New("connection reset")}
	sender := &fakeSender{}
	p := NewNotificationProcessor(logs, sender, nil, nil)

	err := p.Process(context.Background(), confirmationJob(t))

	require.Error(t, err)
	assert.Empty(t, sender.sent, "no email goes out without a log row")
}

func TestProcessUnknownJobType(t *testing.T) {
	p := NewNotificationProcessor(&fakeEmailLogs{}, &fakeSender{}, nil, nil)

	err := p.Process(context.Background(), &queue.Job{ID: "job-3", Type: "reminders"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job type")
}
