package trainer

import (
	"context"
	"regexp"
	"testing"
	"time"

	"fitzone/internal/auth"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now         = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	trainerCols = []string{"id", "name", "email", "phone", "approval_status", "rejection_reason", "approved_at", "approved_by", "created_at"}
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestList(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = 'trainer' AND approval_status = $1 ORDER BY created_at DESC")).
		WithArgs(auth.ApprovalPending).
		WillReturnRows(sqlmock.NewRows(trainerCols).AddRow(2, "Rina", "rina@example.com", nil, "pending", nil, nil, nil, now))
	list, err := repo.List(context.Background(), auth.ApprovalPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, auth.ApprovalPending, list[0].ApprovalStatus)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = 'trainer' ORDER BY created_at DESC")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(trainerCols))
	list, err = repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounts(t *testing.T) {
	repo, mock := setupMock(t)
	mock.ExpectQuery(`COUNT\(\*\) FILTER`).
		WillReturnRows(sqlmock.NewRows([]string{"pending", "approved", "rejected", "total"}).AddRow(2, 5, 1, 8))

	c, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Pending: 2, Approved: 5, Rejected: 1, Total: 8}, c)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := setupMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND role = 'trainer'")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(trainerCols))

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestDecide(t *testing.T) {
	repo, mock := setupMock(t)
	q := `UPDATE users\s+SET approval_status = \$3.*WHERE id = \$1 AND role = 'trainer' AND approval_status = \$2`

	mock.ExpectQuery(q).
		WithArgs(2, auth.ApprovalPending, auth.ApprovalApproved, nil, now, 1).
		WillReturnRows(sqlmock.NewRows(trainerCols).AddRow(2, "Rina", "rina@example.com", nil, "approved", nil, now, 1, now))
	tr, err := repo.Decide(context.Background(), 2, auth.ApprovalPending, auth.ApprovalApproved, nil, 1, now)
	require.NoError(t, err)
	assert.Equal(t, auth.ApprovalApproved, tr.ApprovalStatus)

	reason := "No certificate"
	mock.ExpectQuery(q).
		WithArgs(3, auth.ApprovalPending, auth.ApprovalRejected, reason, nil, 1).
		WillReturnRows(sqlmock.NewRows(trainerCols))
	_, err = repo.Decide(context.Background(), 3, auth.ApprovalPending, auth.ApprovalRejected, &reason, 1, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = repo.Decide(context.Background(), 2, auth.ApprovalApproved, auth.ApprovalRejected, &reason, 1, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
