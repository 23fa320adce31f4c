package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"fitzone/internal/gymclass"
	"fitzone/internal/membership"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now         = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	lockedClass = []string{
		"id", "trainer_id", "name", "description", "class_type", "difficulty", "schedule",
		"duration_minutes", "capacity", "created_at", "updated_at",
	}
	membershipCols = []string{"id", "user_id", "plan_id", "plan_name", "class_limit", "classes_used", "started_at", "expiry_date", "created_at", "updated_at"}
	bookingCols    = []string{"id", "user_id", "class_id", "booking_date", "status", "cancelled_at", "created_at", "updated_at"}
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

type bookScenario struct {
	schedule    time.Time
	capacity    int
	booked      int
	membership  bool
	classLimit  int
	classesUsed int
	expiry      time.Time
	duplicate   bool
}

func expectBook(mock sqlmock.Sqlmock, s bookScenario) {
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM classes c\s+WHERE c.id = \$1\s+FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(lockedClass).
			AddRow(3, 2, "Spin", "", "cardio", "beginner", s.schedule, 60, s.capacity, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE class_id = $1 AND status = 'confirmed'")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(s.booked))
	if s.schedule.Before(now) {
		mock.ExpectRollback()
		return
	}

	rows := sqlmock.NewRows(membershipCols)
	if s.membership {
		rows.AddRow(11, 7, 1, "Basic", s.classLimit, s.classesUsed, now, s.expiry, now, now)
	}
	mock.ExpectQuery(`FROM memberships WHERE user_id = \$1 FOR UPDATE`).WithArgs(7).WillReturnRows(rows)
	if !s.membership || s.expiry.Before(now.Truncate(24*time.Hour)) ||
		(s.classLimit != membership.Unlimited && s.classesUsed >= s.classLimit) {
		mock.ExpectRollback()
		return
	}

	dup := sqlmock.NewRows([]string{"?column?"})
	if s.duplicate {
		dup.AddRow(true)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE user_id = $1 AND class_id = $2")).
		WithArgs(7, 3).
		WillReturnRows(dup)
	if s.duplicate || s.booked >= s.capacity {
		mock.ExpectRollback()
		return
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(7, 3, now).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(50, 7, 3, now, "confirmed", nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta("classes_used = classes_used + 1")).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestRepository_Book(t *testing.T) {
	future := now.Add(48 * time.Hour)
	valid := now.AddDate(0, 0, 10)

	tests := []struct {
		name     string
		scenario bookScenario
		wantErr  error
	}{
		{"success", bookScenario{schedule: future, capacity: 10, booked: 3, membership: true, classLimit: 8, classesUsed: 2, expiry: valid}, nil},
		{"unlimited plan", bookScenario{schedule: future, capacity: 10, booked: 3, membership: true, classLimit: -1, classesUsed: 99, expiry: valid}, nil},
		{"class in past", bookScenario{schedule: now.Add(-time.Hour), capacity: 10}, ErrClassInPast},
		{"no membership", bookScenario{schedule: future, capacity: 10}, membership.ErrMembershipRequired},
		{"expired membership", bookScenario{schedule: future, capacity: 10, membership: true, classLimit: 8, expiry: now.AddDate(0, 0, -1)}, membership.ErrMembershipRequired},
		{"quota exhausted", bookScenario{schedule: future, capacity: 10, membership: true, classLimit: 8, classesUsed: 8, expiry: valid}, membership.ErrClassLimitReached},
		{"already booked", bookScenario{schedule: future, capacity: 10, membership: true, classLimit: 8, expiry: valid, duplicate: true}, ErrAlreadyBooked},
		{"class full", bookScenario{schedule: future, capacity: 10, booked: 10, membership: true, classLimit: 8, expiry: valid}, ErrClassFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupMock(t)
			expectBook(mock, tt.scenario)

			b, err := repo.Book(context.Background(), 7, 3, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 50, b.ID)
				assert.Equal(t, StatusConfirmed, b.Status)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Book_ClassNotFound(t *testing.T) {
	repo, mock := setupMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(3).WillReturnRows(sqlmock.NewRows(lockedClass))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), 7, 3, now)
	assert.ErrorIs(t, err, gymclass.ErrClassNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	t.Run("soft cancel releases quota", func(t *testing.T) {
		repo, mock := setupMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status = 'cancelled'")).
			WithArgs(50).
			WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(50, 7, 3, now, "cancelled", now, now, now))
		mock.ExpectExec(regexp.QuoteMeta("GREATEST(classes_used - 1, 0)")).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		b, err := repo.Cancel(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
		assert.NotNil(t, b.CancelledAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already cancelled", func(t *testing.T) {
		repo, mock := setupMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).WithArgs(50).WillReturnRows(sqlmock.NewRows(bookingCols))
		mock.ExpectRollback()

		_, err := repo.Cancel(context.Background(), 50)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetDetails_NotFound(t *testing.T) {
	repo, mock := setupMock(t)
	mock.ExpectQuery(`WHERE b.id = \$1`).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetDetails(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
