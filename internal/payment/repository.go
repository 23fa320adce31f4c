package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitzone/internal/db"
	"fitzone/internal/membership"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const paymentColumns = `id, order_id, user_id, plan_id, plan_name, duration_days, subtotal, admin_fee, amount,
	payment_method, payment_detail, status, transaction_id, payment_url, va_number, instructions,
	created_at, updated_at, paid_at, expired_at`

const selectRecord = `
	SELECT p.id, p.order_id, p.user_id, p.plan_id, p.plan_name, p.duration_days, p.subtotal, p.admin_fee, p.amount,
	       p.payment_method, p.payment_detail, p.status, p.transaction_id, p.payment_url, p.va_number, p.instructions,
	       p.created_at, p.updated_at, p.paid_at, p.expired_at,
	       u.id AS member_id, u.name AS member_name, u.email AS member_email
	FROM payments p
	JOIN users u ON u.id = p.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// pendingIndex allows one pending payment per member.
const pendingIndex = "idx_payments_one_pending"

// Create inserts a pending payment. The member's overdue pending payments are
// expired first so they do not hold the one-pending slot.
func (r *repository) Create(ctx context.Context, p *Payment) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE payments SET status = 'expired', updated_at = NOW()
			WHERE user_id = $1 AND status = 'pending' AND expired_at <= NOW()`, p.UserID); err != nil {
			return err
		}
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO payments (order_id, user_id, plan_id, plan_name, duration_days, subtotal, admin_fee, amount,
			                      payment_method, payment_detail, status, payment_url, va_number, instructions, expired_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at, updated_at`,
			p.OrderID, p.UserID, p.PlanID, p.PlanName, p.DurationDays, p.Subtotal, p.AdminFee, p.Amount,
			p.Method, p.Detail, p.Status, p.PaymentURL, p.VANumber, p.Instructions, p.ExpiredAt,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if violates(err, pendingIndex) {
			return ErrPendingExists
		}
		if err != nil {
			return err
		}
		p.derive()
		return nil
	})
}

func violates(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == constraint
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	p.derive()
	return &p, nil
}

// FindPending returns the member's newest unexpired pending payment, or nil.
func (r *repository) FindPending(ctx context.Context, userID int, now time.Time) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `
		SELECT `+paymentColumns+` FROM payments
		WHERE user_id = $1 AND status = 'pending' AND expired_at > $2
		ORDER BY created_at DESC LIMIT 1`, userID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.derive()
	return &p, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Payment, error) {
	var out []Payment
	if err := r.db.SelectContext(ctx, &out,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].derive()
	}
	return out, nil
}

func buildFilter(f ReportFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.StartDate != nil {
		add("p.created_at >= $%d", f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		add("p.created_at < $%d", f.EndDate.AddDate(0, 0, 1).Format("2006-01-02"))
	}
	if f.Status != "" {
		add("p.status = $%d", f.Status)
	}
	if f.Plan != "" {
		add("LOWER(p.plan_name) = LOWER($%d)", f.Plan)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *repository) List(ctx context.Context, f ReportFilter) ([]Record, error) {
	where, args := buildFilter(f)

	var out []Record
	if err := r.db.SelectContext(ctx, &out, selectRecord+where+" ORDER BY p.created_at DESC", args...); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].derive()
	}
	return out, nil
}

// DailyRevenue sums successful payments per paid day since the given time.
func (r *repository) DailyRevenue(ctx context.Context, since time.Time) ([]DailyRevenue, error) {
	var out []DailyRevenue
	err := r.db.SelectContext(ctx, &out, `
		SELECT TO_CHAR(paid_at::date, 'YYYY-MM-DD') AS date, COALESCE(SUM(amount), 0) AS total
		FROM payments
		WHERE status = 'success' AND paid_at >= $1
		GROUP BY paid_at::date
		ORDER BY paid_at::date`, since)
	return out, err
}

func transition(ctx context.Context, q sqlx.QueryerContext, orderID string, from, to Status, transactionID string, paidAt *time.Time) (*Payment, error) {
	if !from.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}

	var p Payment
	err := sqlx.GetContext(ctx, q, &p, `
		UPDATE payments
		SET status = $3,
		    transaction_id = COALESCE($4, transaction_id),
		    paid_at = COALESCE($5, paid_at),
		    updated_at = NOW()
		WHERE order_id = $1 AND status = $2
		RETURNING `+paymentColumns,
		orderID, from, to, nullable(transactionID), paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	p.derive()
	return &p, nil
}

// Transition moves a payment from one status to another. The update only
// applies while the row still has status from, so a concurrent transition
// makes this one fail with ErrInvalidTransition.
func (r *repository) Transition(ctx context.Context, orderID string, from, to Status, transactionID string) (*Payment, error) {
	return transition(ctx, r.db, orderID, from, to, transactionID, nil)
}

// Settle marks the payment successful and activates the member's plan in
// the same transaction.
func (r *repository) Settle(ctx context.Context, orderID string, from Status, transactionID string, plan membership.Plan, now time.Time) (*Payment, *membership.Membership, error) {
	var (
		p *Payment
		m *membership.Membership
	)
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		if p, err = transition(ctx, tx, orderID, from, StatusSuccess, transactionID, &now); err != nil {
			return err
		}
		m, err = membership.Activate(ctx, tx, p.UserID, plan, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return p, m, nil
}

func (r *repository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = 'expired', updated_at = NOW() WHERE status = 'pending' AND expired_at <= $1`,
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
