package review

import (
	"context"
	"time"
)

type Repository interface {
	ClassName(ctx context.Context, classID int) (string, error)
	CanReview(ctx context.Context, userID, classID int, now time.Time) (bool, error)
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int) (*Review, error)
	ListByClass(ctx context.Context, classID int) ([]Review, error)
	ListByUser(ctx context.Context, userID int) ([]Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id int) error
}
