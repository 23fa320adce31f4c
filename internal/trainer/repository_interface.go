package trainer

import (
	"context"
	"time"

	"fitzone/internal/auth"
)

type Repository interface {
	List(ctx context.Context, status auth.ApprovalStatus) ([]Trainer, error)
	Counts(ctx context.Context) (Counts, error)
	Get(ctx context.Context, id int) (*Trainer, error)
	Decide(ctx context.Context, id int, from, to auth.ApprovalStatus, reason *string, by int, at time.Time) (*Trainer, error)
}
