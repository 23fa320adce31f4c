package review

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitzone/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const selectReview = `
	SELECT r.id, r.class_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at,
	       u.name AS member_name, c.name AS class_name
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN classes c ON c.id = r.class_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClassName(ctx context.Context, classID int) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM classes WHERE id = $1`, classID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrClassNotFound
	}
	return name, err
}

// CanReview reports whether the member holds a confirmed booking of a class
// that has already started.
func (r *repository) CanReview(ctx context.Context, userID, classID int, now time.Time) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT 1 FROM bookings b
		JOIN classes c ON c.id = b.class_id
		WHERE b.user_id = $1 AND b.class_id = $2 AND b.status = 'confirmed' AND c.schedule <= $3`,
		userID, classID, now)
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO reviews (class_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		rv.ClassID, rv.UserID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyReviewed
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Review, error) {
	var rv Review
	err := r.db.GetContext(ctx, &rv, selectReview+` WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repository) ListByClass(ctx context.Context, classID int) ([]Review, error) {
	var out []Review
	err := r.db.SelectContext(ctx, &out, selectReview+` WHERE r.class_id = $1 ORDER BY r.created_at DESC`, classID)
	return out, err
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Review, error) {
	var out []Review
	err := r.db.SelectContext(ctx, &out, selectReview+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	return out, err
}

func (r *repository) Update(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		rv.ID, rv.Rating, rv.Comment,
	).Scan(&rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
