package client

import (
	"context"
	"strings"
	"sync"
)

// TrainerApprovals backs the admin trainer approval screen. Every
// transition re-fetches the list for the current filter and the counts.
type TrainerApprovals struct {
	client *Client

	mu      sync.RWMutex
	filter  ApprovalStatus
	listing TrainerListing
}

func NewTrainerApprovals(c *Client) *TrainerApprovals {
	return &TrainerApprovals{client: c, filter: ApprovalPending}
}

// Filter switches the status filter ("" = all) and reloads.
func (t *TrainerApprovals) Filter(ctx context.Context, status ApprovalStatus) error {
	t.mu.Lock()
	t.filter = status
	t.mu.Unlock()
	return t.Reload(ctx)
}

func (t *TrainerApprovals) Reload(ctx context.Context) error {
	t.mu.RLock()
	status := t.filter
	t.mu.RUnlock()

	l, err := t.client.Trainers(ctx, status)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.listing = *l
	t.mu.Unlock()
	return nil
}

func (t *TrainerApprovals) Trainers() []Trainer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Trainer(nil), t.listing.Trainers...)
}

func (t *TrainerApprovals) Counts() TrainerCounts {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.listing.Counts
}

func (t *TrainerApprovals) Approve(ctx context.Context, id int) error {
	if err := t.client.ApproveTrainer(ctx, id); err != nil {
		return err
	}
	return t.Reload(ctx)
}

// Reject refuses a blank reason without calling the server.
func (t *TrainerApprovals) Reject(ctx context.Context, id int, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if err := t.client.RejectTrainer(ctx, id, reason); err != nil {
		return err
	}
	return t.Reload(ctx)
}
