package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedulrr/backend/internal/models"
)

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a bookings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a booking. Bookings are never updated afterwards.
func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	const q = `INSERT INTO bookings (id, event_id, user_id, name, email, start_time, end_time, additional_info, meet_link, google_event_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		b.EventID, b.UserID, b.Name, b.Email, b.StartTime, b.EndTime, b.AdditionalInfo, b.MeetLink, b.GoogleEventID,
	).Scan(&b.ID, &b.CreatedAt)
}

const bookingColumns = `id, event_id, user_id, name, email, start_time, end_time, COALESCE(additional_info,''), meet_link, google_event_id, created_at`

func scanBookings(rows pgx.Rows) ([]models.Booking, error) {
	var list []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.UserID, &b.Name, &b.Email, &b.StartTime, &b.EndTime, &b.AdditionalInfo, &b.MeetLink, &b.GoogleEventID, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListByEvent returns bookings for one event, soonest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE event_id = $1 ORDER BY start_time`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListByOwner returns bookings across all events owned by a user, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// CountByEvent returns total and upcoming booking counts for an event.
func (r *Repository) CountByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) (total, upcoming int, err error) {
	const q = `SELECT COUNT(*), COUNT(*) FILTER (WHERE start_time > $2) FROM bookings WHERE event_id = $1`
	err = r.pool.QueryRow(ctx, q, eventID, now).Scan(&total, &upcoming)
	return total, upcoming, err
}
