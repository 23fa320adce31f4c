package gymclass

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

var classCols = []string{
	"id", "trainer_id", "trainer_name", "name", "description", "class_type", "difficulty",
	"schedule", "duration_minutes", "capacity", "created_at", "updated_at", "booked_count",
}

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestBuildFilter(t *testing.T) {
	where, args := buildFilter(Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	where, args = buildFilter(Filter{Search: " yoga ", Type: "Yoga", Difficulty: Beginner, Date: &day, TrainerID: 4, Upcoming: true})
	assert.Equal(t,
		" WHERE (c.name ILIKE $1 OR c.description ILIKE $1 OR c.class_type ILIKE $1 OR u.name ILIKE $1)"+
			" AND LOWER(c.class_type) = LOWER($2) AND c.difficulty = $3 AND c.schedule::date = $4::date"+
			" AND c.trainer_id = $5 AND c.schedule > NOW()",
		where)
	assert.Equal(t, []interface{}{"%yoga%", "Yoga", Beginner, "2026-11-02", 4}, args)
}

func TestRepository_List(t *testing.T) {
	db, mock := setupMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.difficulty = $1 ORDER BY c.schedule ASC")).
		WithArgs("advanced").
		WillReturnRows(sqlmock.NewRows(classCols).
			AddRow(1, 2, "Tono", "HIIT", "", "cardio", "advanced", now, 45, 10, now, now, 10).
			AddRow(2, 2, "Tono", "Spin", "", "cardio", "advanced", now, 60, 12, now, now, 3))

	classes, err := NewRepository(db).List(context.Background(), Filter{Difficulty: Advanced})
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.True(t, classes[0].IsFull)
	assert.Equal(t, 0, classes[0].AvailableSlots)
	assert.Equal(t, 9, classes[1].AvailableSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectQuery(`WHERE c.id = \$1`).WithArgs(9).WillReturnRows(sqlmock.NewRows(classCols))

	_, err := NewRepository(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestRepository_CreateAndDelete(t *testing.T) {
	db, mock := setupMock(t)
	now := time.Now()
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classes")).
		WithArgs(2, "Yoga", "", "yoga", Beginner, now, 60, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classes WHERE id = $1")).
		WithArgs(77).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c := &Class{TrainerID: 2, Name: "Yoga", ClassType: "yoga", Difficulty: Beginner, Schedule: now, DurationMinutes: 60, Capacity: 20}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, 5, c.ID)
	assert.Equal(t, 20, c.AvailableSlots)

	assert.ErrorIs(t, repo.Delete(context.Background(), 77), ErrClassNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Participants(t *testing.T) {
	db, mock := setupMock(t)
	now := time.Now()

	_, err := NewRepository(db).Participants(context.Background())
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.class_id = ANY($1) AND b.status = 'confirmed'")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "class_id", "user_id", "name", "email", "phone", "booking_date", "attended", "attendance_date"}).
			AddRow(10, 1, 7, "Maya", "maya@example.com", nil, now, true, now).
			AddRow(11, 2, 8, "Rina", "rina@example.com", nil, now, nil, nil))

	list, err := NewRepository(db).Participants(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Attended)
	assert.True(t, *list[0].Attended)
	assert.Nil(t, list[1].Attended)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockForBooking(t *testing.T) {
	db, mock := setupMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trainer_id", "name", "description", "class_type", "difficulty", "schedule",
			"duration_minutes", "capacity", "created_at", "updated_at",
		}).AddRow(3, 2, "Pilates", "", "pilates", "beginner", now, 60, 8, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE class_id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	c, err := LockForBooking(context.Background(), tx, 3)
	require.NoError(t, err)
	assert.True(t, c.IsFull)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
