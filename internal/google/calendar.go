// Package google integrates with Google Calendar on behalf of event owners:
// it stores each owner's OAuth tokens and inserts calendar events (optionally
// with Meet conference data) using a delegated token.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	oauth2google "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Provider is the credential store key for Google Calendar connections.
const Provider = "google"

// ErrNotConnected is returned when the event owner has no stored Google credential.
var ErrNotConnected = errors.New("calendar not connected")

// Payload is a composed calendar event ready for submission. When
// ConferenceRequestID is non-empty the insert requests Meet conference
// data under that idempotency key.
type Payload struct {
	Summary             string
	Description         string
	Location            string
	Start               time.Time
	End                 time.Time
	Attendees           []string
	ConferenceRequestID string
}

// Result carries the provider-assigned identifiers of an inserted event.
type Result struct {
	EventID     string
	HangoutLink string
}

// TokenStore resolves the delegated OAuth token for a user. A nil token with
// nil error means no credential is stored.
type TokenStore interface {
	Token(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error)
}

// Gateway submits composed payloads to Google Calendar.
type Gateway struct {
	store  TokenStore
	oauth  *oauth2.Config
	logger *zap.Logger
}

// NewGateway creates a calendar gateway backed by the given token store.
func NewGateway(store TokenStore, oauthCfg *oauth2.Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{store: store, oauth: oauthCfg, logger: logger}
}

// OAuthConfig builds the OAuth2 config used for both the connect flow and
// token refresh. Scope is limited to calendar events.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     oauth2google.Endpoint,
	}
}

// Insert exchanges the owner's stored credential for an authenticated client
// and submits the payload to the owner's primary calendar. The client lives
// for this one call only. Returns ErrNotConnected when no credential exists;
// provider failures propagate without retry.
func (g *Gateway) Insert(ctx context.Context, ownerID uuid.UUID, p Payload) (*Result, error) {
	token, err := g.store.Token(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load calendar token: %w", err)
	}
	if token == nil {
		return nil, ErrNotConnected
	}

	// TokenSource refreshes expired access tokens with the stored refresh token.
	service, err := calendar.NewService(ctx, option.WithTokenSource(g.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	event := buildEvent(p)
	call := service.Events.Insert("primary", event)
	if p.ConferenceRequestID != "" {
		call = call.ConferenceDataVersion(1)
	}
	created, err := call.Context(ctx).Do()
	if err != nil {
		g.logger.Error("calendar insert failed", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("insert calendar event: %w", err)
	}

	g.logger.Info("calendar event created",
		zap.String("owner_id", ownerID.String()),
		zap.String("event_id", created.Id),
		zap.Bool("conference", p.ConferenceRequestID != ""),
	)
	return &Result{EventID: created.Id, HangoutLink: created.HangoutLink}, nil
}

// buildEvent maps a payload to the Calendar API event shape.
func buildEvent(p Payload) *calendar.Event {
	attendees := make([]*calendar.EventAttendee, 0, len(p.Attendees))
	for _, email := range p.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	event := &calendar.Event{
		Summary:     p.Summary,
		Description: p.Description,
		Location:    p.Location,
		Start:       &calendar.EventDateTime{DateTime: p.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: p.End.Format(time.RFC3339)},
		Attendees:   attendees,
	}
	if p.ConferenceRequestID != "" {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{RequestId: p.ConferenceRequestID},
		}
	}
	return event
}
