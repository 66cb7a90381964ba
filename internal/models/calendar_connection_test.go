package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The connection record is returned verbatim by the calendar status endpoint,
// so token material must never appear in its JSON form.
func TestCalendarConnectionJSONHidesTokens(t *testing.T) {
	conn := CalendarConnection{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Provider:     "google",
		AccessToken:  "ya29.secret",
		RefreshToken: "1//refresh-secret",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	raw, err := json.Marshal(conn)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "ya29.secret")
	assert.NotContains(t, string(raw), "refresh-secret")
	assert.Contains(t, string(raw), `"provider":"google"`)
}
