package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const membershipColumns = `id, user_id, plan_id, plan_name, class_limit, classes_used, started_at, expiry_date, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Activate(ctx context.Context, userID int, plan Plan, now time.Time) (*Membership, error) {
	return Activate(ctx, r.db, userID, plan, now)
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]Membership, error) {
	var out []Membership
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+membershipColumns+` FROM memberships WHERE expiry_date >= $1 ORDER BY expiry_date`,
		dateOf(now))
	return out, err
}

// Activate starts (or restarts) a user's membership on plan. It accepts a
// transaction so payment settlement can activate atomically.
func Activate(ctx context.Context, q sqlx.QueryerContext, userID int, plan Plan, now time.Time) (*Membership, error) {
	start := dateOf(now)
	expiry := start.AddDate(0, 0, plan.DurationDays)

	var m Membership
	err := sqlx.GetContext(ctx, q, &m, `
		INSERT INTO memberships (user_id, plan_id, plan_name, class_limit, classes_used, started_at, expiry_date)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			plan_name = EXCLUDED.plan_name,
			class_limit = EXCLUDED.class_limit,
			classes_used = 0,
			started_at = EXCLUDED.started_at,
			expiry_date = EXCLUDED.expiry_date,
			updated_at = NOW()
		RETURNING `+membershipColumns,
		userID, plan.ID, plan.Name, plan.ClassLimit, start, expiry)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LockForUser reads the membership row with FOR UPDATE inside tx.
func LockForUser(ctx context.Context, tx *sqlx.Tx, userID int) (*Membership, error) {
	var m Membership
	err := tx.GetContext(ctx, &m, `SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UseClass consumes one class from the quota.
func UseClass(ctx context.Context, tx *sqlx.Tx, membershipID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE memberships SET classes_used = classes_used + 1, updated_at = NOW() WHERE id = $1`,
		membershipID)
	return err
}

// ReleaseClass gives back one class, never dropping below zero.
func ReleaseClass(ctx context.Context, tx *sqlx.Tx, userID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE memberships SET classes_used = GREATEST(classes_used - 1, 0), updated_at = NOW() WHERE user_id = $1`,
		userID)
	return err
}
