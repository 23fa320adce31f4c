package attendance

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

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (booking_id) DO UPDATE")).
		WithArgs(12, true, "2026-10-19", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "attended", "date", "marked_by", "created_at", "updated_at"}).
			AddRow(1, 12, true, now, 2, now, now))

	a, err := repo.Upsert(context.Background(), 12, true, now, 2)
	require.NoError(t, err)
	assert.True(t, a.Attended)
	require.NotNil(t, a.MarkedBy)
	assert.Equal(t, 2, *a.MarkedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Target_NotFound(t *testing.T) {
	repo, mock := setupMock(t)
	mock.ExpectQuery(`WHERE b.id = \$1`).WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"booking_id"}))

	_, err := repo.Target(context.Background(), 3)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ListFilters(t *testing.T) {
	repo, mock := setupMock(t)
	cols := []string{"id", "booking_id", "attended", "date", "marked_by", "created_at", "updated_at",
		"user_id", "member_name", "member_email", "class_id", "class_name", "schedule", "trainer_id"}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.id = $1 AND c.trainer_id = $2 ORDER BY")).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN classes c ON c.id = b.class_id ORDER BY")).
		WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.List(context.Background(), 5, 2)
	require.NoError(t, err)
	_, err = repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkAbsentees(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("NOT EXISTS (SELECT 1 FROM attendance a WHERE a.booking_id = b.id)")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkAbsentees(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
