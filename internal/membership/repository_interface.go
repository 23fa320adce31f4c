package membership

import (
	"context"
	"time"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID int) (*Membership, error)
	Activate(ctx context.Context, userID int, plan Plan, now time.Time) (*Membership, error)
	ListActive(ctx context.Context, now time.Time) ([]Membership, error)
}
