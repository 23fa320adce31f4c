package trainer

import (
	"context"
	"strings"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/email"
	"fitzone/internal/logger"
	"fitzone/internal/metrics"
)

type Service interface {
	List(ctx context.Context, status auth.ApprovalStatus) (*Listing, error)
	Approve(ctx context.Context, admin auth.Actor, id int) (*Trainer, error)
	Reject(ctx context.Context, admin auth.Actor, id int, reason string) (*Trainer, error)
}

type service struct {
	repo     Repository
	notifier email.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier email.Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) List(ctx context.Context, status auth.ApprovalStatus) (*Listing, error) {
	trainers, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if trainers == nil {
		trainers = []Trainer{}
	}
	return &Listing{Trainers: trainers, Counts: counts}, nil
}

func (s *service) Approve(ctx context.Context, admin auth.Actor, id int) (*Trainer, error) {
	return s.decide(ctx, admin, id, auth.ApprovalApproved, "")
}

func (s *service) Reject(ctx context.Context, admin auth.Actor, id int, reason string) (*Trainer, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.decide(ctx, admin, id, auth.ApprovalRejected, reason)
}

func (s *service) decide(ctx context.Context, admin auth.Actor, id int, to auth.ApprovalStatus, reason string) (*Trainer, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.ApprovalStatus.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}

	var why *string
	if reason != "" {
		why = &reason
	}
	updated, err := s.repo.Decide(ctx, id, t.ApprovalStatus, to, why, admin.ID, s.now())
	if err != nil {
		return nil, err
	}

	metrics.RecordTrainerDecision(string(to))
	logger.Info("trainer approval decided", "trainer_id", id, "from", t.ApprovalStatus, "to", to, "admin_id", admin.ID)

	if s.notifier != nil {
		if err := s.notifier.SendTrainerDecision(ctx, updated.Email, updated.Name, to == auth.ApprovalApproved, reason); err != nil {
			logger.WithError(err).Warn("failed to queue trainer decision email", "trainer_id", id)
		}
	}
	return updated, nil
}
