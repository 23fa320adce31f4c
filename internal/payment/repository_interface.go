package payment

import (
	"context"
	"time"

	"fitzone/internal/membership"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)
	FindPending(ctx context.Context, userID int, now time.Time) (*Payment, error)
	ListByUser(ctx context.Context, userID int) ([]Payment, error)
	List(ctx context.Context, f ReportFilter) ([]Record, error)
	DailyRevenue(ctx context.Context, since time.Time) ([]DailyRevenue, error)
	Transition(ctx context.Context, orderID string, from, to Status, transactionID string) (*Payment, error)
	Settle(ctx context.Context, orderID string, from Status, transactionID string, plan membership.Plan, now time.Time) (*Payment, *membership.Membership, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
