package membership

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var membershipCols = []string{"id", "user_id", "plan_id", "plan_name", "class_limit", "classes_used", "started_at", "expiry_date", "created_at", "updated_at"}

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestActivate(t *testing.T) {
	db, mock := setupMock(t)
	plan, _ := PlanByID(2)
	start := dateOf(today)
	expiry := start.AddDate(0, 0, 30)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO memberships")).
		WithArgs(7, 2, "Premium", 20, start, expiry).
		WillReturnRows(sqlmock.NewRows(membershipCols).AddRow(1, 7, 2, "Premium", 20, 0, start, expiry, today, today))

	m, err := NewRepository(db).Activate(context.Background(), 7, plan, today)
	require.NoError(t, err)
	assert.Equal(t, expiry, m.ExpiryDate)
	assert.Equal(t, 0, m.ClassesUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUserID_NotFound(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectQuery(`FROM memberships WHERE user_id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(membershipCols))

	_, err := NewRepository(db).GetByUserID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockUseRelease(t *testing.T) {
	db, mock := setupMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(membershipCols).AddRow(3, 7, 1, "Basic", 8, 2, now, now, now, now))
	mock.ExpectExec(regexp.QuoteMeta("SET classes_used = classes_used + 1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("GREATEST(classes_used - 1, 0)")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(membershipCols))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)

	m, err := LockForUser(ctx, tx, 7)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.ClassesUsed)

	require.NoError(t, UseClass(ctx, tx, m.ID))
	require.NoError(t, ReleaseClass(ctx, tx, 7))

	none, err := LockForUser(ctx, tx, 8)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
