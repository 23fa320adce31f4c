package attendance

import (
	"context"
	"time"
)

type Repository interface {
	Target(ctx context.Context, bookingID int) (*Target, error)
	Upsert(ctx context.Context, bookingID int, attended bool, date time.Time, markedBy int) (*Attendance, error)
	List(ctx context.Context, classID, trainerID int) ([]Record, error)
	ListByUser(ctx context.Context, userID int) ([]Record, error)
	MarkAbsentees(ctx context.Context, now time.Time) (int64, error)
}
