package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedulrr/backend/internal/models"
)

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	participants, err := marshalParticipants(e.Participants)
	if err != nil {
		return err
	}
	const q = `INSERT INTO events (id, user_id, title, description, duration_minutes, event_type, has_video, video_provider, chat_provider, address, contact_number, participants)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q,
		e.UserID, e.Title, e.Description, e.DurationMinutes, e.EventType, e.HasVideo,
		e.VideoProvider, e.ChatProvider, e.Address, e.ContactNumber, participants,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

const eventColumns = `e.id, e.user_id, e.title, e.description, e.duration_minutes, e.event_type, e.has_video,
	COALESCE(e.video_provider,''), COALESCE(e.chat_provider,''), COALESCE(e.address,''), COALESCE(e.contact_number,''),
	e.participants, e.created_at, e.updated_at`

func scanEvent(row interface{ Scan(dest ...any) error }) (*models.Event, error) {
	var e models.Event
	var participants []byte
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.DurationMinutes, &e.EventType, &e.HasVideo,
		&e.VideoProvider, &e.ChatProvider, &e.Address, &e.ContactNumber, &participants, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &e.Participants); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func marshalParticipants(participants []models.Participant) ([]byte, error) {
	if len(participants) == 0 {
		return nil, nil
	}
	return json.Marshal(participants)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
}

// GetByIDWithOwner returns an event and its owning user.
func (r *Repository) GetByIDWithOwner(ctx context.Context, id uuid.UUID) (*models.Event, *models.User, error) {
	const q = `SELECT ` + eventColumns + `,
		u.id, u.email, u.full_name, u.username
		FROM events e JOIN users u ON u.id = e.user_id WHERE e.id = $1`
	var e models.Event
	var u models.User
	var participants []byte
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.DurationMinutes, &e.EventType, &e.HasVideo,
		&e.VideoProvider, &e.ChatProvider, &e.Address, &e.ContactNumber, &participants, &e.CreatedAt, &e.UpdatedAt,
		&u.ID, &u.Email, &u.FullName, &u.Username,
	)
	if err != nil {
		return nil, nil, err
	}
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &e.Participants); err != nil {
			return nil, nil, err
		}
	}
	return &e, &u, nil
}

// ListByUser returns all events owned by a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.user_id = $1 ORDER BY e.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// ListPublicByUsername returns a user's PUBLIC events for the public booking page.
func (r *Repository) ListPublicByUsername(ctx context.Context, username string) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events e
		JOIN users u ON u.id = e.user_id
		WHERE u.username = $1 AND e.event_type = $2
		ORDER BY e.created_at DESC`
	rows, err := r.pool.Query(ctx, q, username, models.EventTypePublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update updates event fields. Owner scoping is enforced by the caller.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	participants, err := marshalParticipants(e.Participants)
	if err != nil {
		return err
	}
	const q = `UPDATE events SET title = $1, description = $2, duration_minutes = $3, event_type = $4,
		has_video = $5, video_provider = $6, chat_provider = $7, address = $8, contact_number = $9,
		participants = $10, updated_at = NOW()
		WHERE id = $11 AND user_id = $12`
	_, err = r.pool.Exec(ctx, q,
		e.Title, e.Description, e.DurationMinutes, e.EventType, e.HasVideo,
		e.VideoProvider, e.ChatProvider, e.Address, e.ContactNumber, participants,
		e.ID, e.UserID,
	)
	return err
}

// Delete removes an event owned by the given user.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, q, id, userID)
	return err
}
