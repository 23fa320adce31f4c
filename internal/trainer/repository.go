package trainer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitzone/internal/auth"

	"github.com/jmoiron/sqlx"
)

const trainerColumns = `id, name, email, phone, approval_status, rejection_reason, approved_at, approved_by, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// List returns trainers with the given approval status, or all when status is empty.
func (r *repository) List(ctx context.Context, status auth.ApprovalStatus) ([]Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM users WHERE role = 'trainer'`
	var args []interface{}
	if status != "" {
		query += ` AND approval_status = $1`
		args = append(args, status)
	}

	var out []Trainer
	if err := r.db.SelectContext(ctx, &out, query+` ORDER BY created_at DESC`, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.GetContext(ctx, &c, `
		SELECT COUNT(*) FILTER (WHERE approval_status = 'pending')  AS pending,
		       COUNT(*) FILTER (WHERE approval_status = 'approved') AS approved,
		       COUNT(*) FILTER (WHERE approval_status = 'rejected') AS rejected,
		       COUNT(*) AS total
		FROM users WHERE role = 'trainer'`)
	return c, err
}

func (r *repository) Get(ctx context.Context, id int) (*Trainer, error) {
	var t Trainer
	err := r.db.GetContext(ctx, &t, `SELECT `+trainerColumns+` FROM users WHERE id = $1 AND role = 'trainer'`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Decide records an approval decision. The update is guarded by the status
// the caller read, so two admins deciding at once cannot both win.
func (r *repository) Decide(ctx context.Context, id int, from, to auth.ApprovalStatus, reason *string, by int, at time.Time) (*Trainer, error) {
	if !from.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}

	var approvedAt *time.Time
	if to == auth.ApprovalApproved {
		approvedAt = &at
	}

	var t Trainer
	err := r.db.GetContext(ctx, &t, `
		UPDATE users
		SET approval_status = $3,
		    rejection_reason = $4,
		    approved_at = $5,
		    approved_by = $6,
		    updated_at = NOW()
		WHERE id = $1 AND role = 'trainer' AND approval_status = $2
		RETURNING `+trainerColumns,
		id, from, to, reason, approvedAt, by)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
