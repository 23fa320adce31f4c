package gymclass

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitzone/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrClassNotFound = errors.New("class not found")

const selectClass = `
	SELECT c.id, c.trainer_id, u.name AS trainer_name, c.name, c.description, c.class_type,
	       c.difficulty, c.schedule, c.duration_minutes, c.capacity, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM bookings b WHERE b.class_id = c.id AND b.status = 'confirmed') AS booked_count
	FROM classes c
	JOIN users u ON u.id = c.trainer_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Class) error {
	query := `
		INSERT INTO classes (trainer_id, name, description, class_type, difficulty, schedule, duration_minutes, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.TrainerID, c.Name, c.Description, c.ClassType, c.Difficulty, c.Schedule, c.DurationMinutes, c.Capacity,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}
	c.derive()
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Class, error) {
	var c Class
	err := r.db.GetContext(ctx, &c, selectClass+" WHERE c.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	c.derive()
	return &c, nil
}

// buildFilter turns f into a WHERE clause with positional args.
func buildFilter(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		args = append(args, like)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR c.description ILIKE $%d OR c.class_type ILIKE $%d OR u.name ILIKE $%d)", n, n, n, n))
	}
	if f.Type != "" {
		add("LOWER(c.class_type) = LOWER($%d)", f.Type)
	}
	if f.Difficulty != "" {
		add("c.difficulty = $%d", f.Difficulty)
	}
	if f.Date != nil {
		add("c.schedule::date = $%d::date", f.Date.Format("2006-01-02"))
	}
	if f.TrainerID > 0 {
		add("c.trainer_id = $%d", f.TrainerID)
	}
	if f.Upcoming {
		conds = append(conds, "c.schedule > NOW()")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *repository) List(ctx context.Context, f Filter) ([]Class, error) {
	where, args := buildFilter(f)

	var classes []Class
	if err := r.db.SelectContext(ctx, &classes, selectClass+where+" ORDER BY c.schedule ASC", args...); err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].derive()
	}
	return classes, nil
}

func (r *repository) Update(ctx context.Context, c *Class) error {
	query := `
		UPDATE classes SET
			trainer_id = $1, name = $2, description = $3, class_type = $4, difficulty = $5,
			schedule = $6, duration_minutes = $7, capacity = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.TrainerID, c.Name, c.Description, c.ClassType, c.Difficulty,
		c.Schedule, c.DurationMinutes, c.Capacity, c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrClassNotFound
	}
	if err != nil {
		return err
	}
	c.derive()
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrClassNotFound
	}
	return nil
}

// Participants lists the confirmed bookings of the given classes.
func (r *repository) Participants(ctx context.Context, classIDs ...int) ([]Participant, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT b.id AS booking_id, b.class_id, b.user_id, u.name, u.email, u.phone, b.booking_date,
		       a.attended, a.date AS attendance_date
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		LEFT JOIN attendance a ON a.booking_id = b.id
		WHERE b.class_id = ANY($1) AND b.status = 'confirmed'
		ORDER BY b.class_id, u.name
	`
	var out []Participant
	err := r.db.SelectContext(ctx, &out, query, pq.Array(classIDs))
	return out, err
}

func (r *repository) IsApprovedTrainer(ctx context.Context, userID int) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT 1 FROM users WHERE id = $1 AND role = 'trainer' AND approval_status = 'approved'`, userID)
}

// LockForBooking locks a class row with FOR UPDATE inside tx and then counts
// its confirmed bookings. The count runs as its own statement so it sees
// bookings committed by transactions that held the lock before us.
func LockForBooking(ctx context.Context, tx *sqlx.Tx, id int) (*Class, error) {
	var c Class
	err := tx.GetContext(ctx, &c, `
		SELECT c.id, c.trainer_id, c.name, c.description, c.class_type, c.difficulty, c.schedule,
		       c.duration_minutes, c.capacity, c.created_at, c.updated_at
		FROM classes c
		WHERE c.id = $1
		FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	err = tx.GetContext(ctx, &c.BookedCount,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1 AND status = 'confirmed'`, id)
	if err != nil {
		return nil, err
	}
	c.derive()
	return &c, nil
}
