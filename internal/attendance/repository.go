package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrBookingNotFound = errors.New("booking not found")

const selectRecord = `
	SELECT a.id, a.booking_id, a.attended, a.date, a.marked_by, a.created_at, a.updated_at,
	       b.user_id, u.name AS member_name, u.email AS member_email,
	       c.id AS class_id, c.name AS class_name, c.schedule, c.trainer_id
	FROM attendance a
	JOIN bookings b ON b.id = a.booking_id
	JOIN users u ON u.id = b.user_id
	JOIN classes c ON c.id = b.class_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Target(ctx context.Context, bookingID int) (*Target, error) {
	var t Target
	err := r.db.GetContext(ctx, &t, `
		SELECT b.id AS booking_id, b.status, b.class_id, c.trainer_id, c.schedule
		FROM bookings b
		JOIN classes c ON c.id = b.class_id
		WHERE b.id = $1`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert writes the attendance of a booking, replacing an earlier mark.
func (r *repository) Upsert(ctx context.Context, bookingID int, attended bool, date time.Time, markedBy int) (*Attendance, error) {
	var a Attendance
	err := r.db.GetContext(ctx, &a, `
		INSERT INTO attendance (booking_id, attended, date, marked_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (booking_id) DO UPDATE SET
			attended = EXCLUDED.attended,
			date = EXCLUDED.date,
			marked_by = EXCLUDED.marked_by,
			updated_at = NOW()
		RETURNING id, booking_id, attended, date, marked_by, created_at, updated_at`,
		bookingID, attended, date.Format("2006-01-02"), markedBy)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, classID, trainerID int) ([]Record, error) {
	var conds []string
	var args []interface{}
	if classID > 0 {
		args = append(args, classID)
		conds = append(conds, fmt.Sprintf("c.id = $%d", len(args)))
	}
	if trainerID > 0 {
		args = append(args, trainerID)
		conds = append(conds, fmt.Sprintf("c.trainer_id = $%d", len(args)))
	}

	query := selectRecord
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.schedule DESC, u.name"

	var out []Record
	err := r.db.SelectContext(ctx, &out, query, args...)
	return out, err
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Record, error) {
	var out []Record
	err := r.db.SelectContext(ctx, &out, selectRecord+` WHERE b.user_id = $1 ORDER BY c.schedule DESC`, userID)
	return out, err
}

// MarkAbsentees records every confirmed booking of a finished class that
// nobody marked as absent. Rows marked by a trainer are never touched.
func (r *repository) MarkAbsentees(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (booking_id, attended, date)
		SELECT b.id, FALSE, c.schedule::date
		FROM bookings b
		JOIN classes c ON c.id = b.class_id
		WHERE b.status = 'confirmed'
		  AND c.schedule + c.duration_minutes * INTERVAL '1 minute' < $1
		  AND NOT EXISTS (SELECT 1 FROM attendance a WHERE a.booking_id = b.id)
		ON CONFLICT (booking_id) DO NOTHING`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
