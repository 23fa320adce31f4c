package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitzone/internal/db"
	"fitzone/internal/gymclass"
	"fitzone/internal/membership"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrAlreadyBooked    = errors.New("class already booked")
	ErrClassFull        = errors.New("class is fully booked")
	ErrClassInPast      = errors.New("class has already started")
)

const bookingColumns = `id, user_id, class_id, booking_date, status, cancelled_at, created_at, updated_at`

const selectDetails = `
	SELECT b.id, b.user_id, b.class_id, b.booking_date, b.status, b.cancelled_at, b.created_at, b.updated_at,
	       c.name AS class_name, c.class_type, c.difficulty, c.schedule, c.duration_minutes, c.trainer_id,
	       t.name AS trainer_name, m.name AS member_name, m.email AS member_email,
	       a.attended, a.date AS attendance_date
	FROM bookings b
	JOIN classes c ON c.id = b.class_id
	JOIN users t ON t.id = c.trainer_id
	JOIN users m ON m.id = b.user_id
	LEFT JOIN attendance a ON a.booking_id = b.id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Book runs every eligibility check and the insert in one transaction. The
// class row is locked first so concurrent bookings for the same class queue up
// and cannot overfill it.
func (r *repository) Book(ctx context.Context, userID, classID int, now time.Time) (*Booking, error) {
	var b Booking
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		class, err := gymclass.LockForBooking(ctx, tx, classID)
		if err != nil {
			return err
		}
		if class.IsPast(now) {
			return ErrClassInPast
		}

		m, err := membership.LockForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := m.CheckBookable(now); err != nil {
			return err
		}

		booked, err := db.Exists(ctx, tx,
			`SELECT 1 FROM bookings WHERE user_id = $1 AND class_id = $2 AND status = 'confirmed'`,
			userID, classID)
		if err != nil {
			return err
		}
		if booked {
			return ErrAlreadyBooked
		}
		if class.IsFull {
			return ErrClassFull
		}

		err = tx.GetContext(ctx, &b, `
			INSERT INTO bookings (user_id, class_id, booking_date, status)
			VALUES ($1, $2, $3, 'confirmed')
			RETURNING `+bookingColumns,
			userID, classID, now)
		if isUniqueViolation(err) {
			return ErrAlreadyBooked
		}
		if err != nil {
			return err
		}

		return membership.UseClass(ctx, tx, m.ID)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Cancel marks a confirmed booking cancelled and gives the class back to the
// member's quota. Bookings are never deleted.
func (r *repository) Cancel(ctx context.Context, bookingID int) (*Booking, error) {
	var b Booking
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &b, `
			UPDATE bookings SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'confirmed'
			RETURNING `+bookingColumns,
			bookingID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlreadyCancelled
		}
		if err != nil {
			return err
		}
		return membership.ReleaseClass(ctx, tx, b.UserID)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetDetails(ctx context.Context, id int) (*Details, error) {
	var d Details
	err := r.db.GetContext(ctx, &d, selectDetails+` WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Details, error) {
	var out []Details
	err := r.db.SelectContext(ctx, &out, selectDetails+` WHERE b.user_id = $1 ORDER BY b.booking_date DESC`, userID)
	return out, err
}

func (r *repository) ListAll(ctx context.Context, status Status) ([]Details, error) {
	var out []Details
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &out, selectDetails+` ORDER BY c.schedule DESC, b.booking_date DESC`)
	} else {
		err = r.db.SelectContext(ctx, &out, selectDetails+` WHERE b.status = $1 ORDER BY c.schedule DESC, b.booking_date DESC`, status)
	}
	return out, err
}
