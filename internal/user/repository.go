package user

import (
	"context"
	"database/sql"
	"errors"

	"fitzone/internal/auth"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const selectUser = `
	SELECT u.id, u.name, u.email, u.password_hash, u.role, u.phone, u.address, u.avatar_url,
	       u.approval_status, u.rejection_reason, u.approved_at, u.approved_by, u.created_at, u.updated_at,
	       m.plan_name AS membership_plan, m.expiry_date AS membership_expiry
	FROM users u
	LEFT JOIN memberships m ON m.user_id = u.id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone, address, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, u.Address, u.ApprovalStatus,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *repository) findOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, selectUser+" WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "LOWER(u.email) = LOWER($1)", email)
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
	return exists, err
}

func (r *repository) List(ctx context.Context, role auth.Role) ([]User, error) {
	var users []User
	var err error
	if role == "" {
		err = r.db.SelectContext(ctx, &users, selectUser+" ORDER BY u.created_at DESC")
	} else {
		err = r.db.SelectContext(ctx, &users, selectUser+" WHERE u.role = $1 ORDER BY u.created_at DESC", role)
	}
	return users, err
}

func (r *repository) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int, name string, phone, address *string) error {
	return r.exec(ctx,
		`UPDATE users SET name = $1, phone = $2, address = $3, updated_at = NOW() WHERE id = $4`,
		name, phone, address, id)
}

// UpdateByAdmin also resets approval when a user is moved into or out of the trainer role.
func (r *repository) UpdateByAdmin(ctx context.Context, id int, req AdminUpdateRequest) error {
	return r.exec(ctx, `
		UPDATE users SET
			name = $1, phone = $2, address = $3,
			approval_status = CASE
				WHEN role <> $4 AND $4 = 'trainer' THEN 'pending'
				WHEN $4 <> 'trainer' THEN 'approved'
				ELSE approval_status END,
			role = $4,
			updated_at = NOW()
		WHERE id = $5`,
		req.Name, req.Phone, req.Address, req.Role, id)
}

func (r *repository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
}

func (r *repository) UpdateAvatar(ctx context.Context, id int, url string) error {
	return r.exec(ctx, `UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) ApprovalStatus(ctx context.Context, id int) (auth.ApprovalStatus, error) {
	var status auth.ApprovalStatus
	err := r.db.GetContext(ctx, &status, `SELECT approval_status FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return status, err
}
