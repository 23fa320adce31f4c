package booking

import (
	"context"
	"time"
)

type Repository interface {
	Book(ctx context.Context, userID, classID int, now time.Time) (*Booking, error)
	Cancel(ctx context.Context, bookingID int) (*Booking, error)
	GetDetails(ctx context.Context, id int) (*Details, error)
	ListByUser(ctx context.Context, userID int) ([]Details, error)
	ListAll(ctx context.Context, status Status) ([]Details, error)
}
