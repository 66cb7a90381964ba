package google

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"github.com/schedulrr/backend/internal/models"
)

// Store persists calendar OAuth tokens, keyed by (user_id, provider).
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a token store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Token returns the stored token for a user, or nil when none exists.
func (s *Store) Token(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	const q = `SELECT access_token, refresh_token, token_type, expiry
		FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	var tok oauth2.Token
	err := s.pool.QueryRow(ctx, q, userID, Provider).
		Scan(&tok.AccessToken, &tok.RefreshToken, &tok.TokenType, &tok.Expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Save upserts the token for a user. The refresh token is kept when Google
// omits it on re-consent.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, tok *oauth2.Token) error {
	const q = `INSERT INTO calendar_connections (id, user_id, provider, access_token, refresh_token, token_type, expiry)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = CASE WHEN EXCLUDED.refresh_token = '' THEN calendar_connections.refresh_token ELSE EXCLUDED.refresh_token END,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			updated_at = NOW()`
	_, err := s.pool.Exec(ctx, q, userID, Provider, tok.AccessToken, tok.RefreshToken, tok.TokenType, tok.Expiry)
	return err
}

// Delete removes the stored token for a user.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	const q = `DELETE FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	_, err := s.pool.Exec(ctx, q, userID, Provider)
	return err
}

// Connection returns the user's connection record without token material, or
// nil when the calendar is not connected.
func (s *Store) Connection(ctx context.Context, userID uuid.UUID) (*models.CalendarConnection, error) {
	const q = `SELECT id, user_id, provider, expiry, created_at, updated_at
		FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	var conn models.CalendarConnection
	err := s.pool.QueryRow(ctx, q, userID, Provider).
		Scan(&conn.ID, &conn.UserID, &conn.Provider, &conn.Expiry, &conn.CreatedAt, &conn.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}
