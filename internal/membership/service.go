package membership

import (
	"context"
	"errors"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/email"
	"fitzone/internal/logger"
	"fitzone/internal/metrics"
	"fitzone/internal/user"
)

// UserLookup is the part of the user store the membership service needs.
type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Service interface {
	Plans() []Plan
	My(ctx context.Context, userID int) (View, error)
	Grant(ctx context.Context, req GrantRequest) (*Membership, error)
	ListActive(ctx context.Context) ([]Membership, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	notifier email.Notifier
	now      func() time.Time
}

func NewService(repo Repository, users UserLookup, notifier email.Notifier) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Plans() []Plan {
	return Plans()
}

func (s *service) My(ctx context.Context, userID int) (View, error) {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrMembershipNotFound) {
		return View{}, err
	}
	return NewView(m, s.now()), nil
}

// Grant activates a plan for a member without a payment.
func (s *service) Grant(ctx context.Context, req GrantRequest) (*Membership, error) {
	plan, ok := PlanByID(req.PlanID)
	if !ok {
		return nil, ErrPlanNotFound
	}

	u, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if u.Role != auth.RoleMember {
		return nil, ErrNotMember
	}

	m, err := s.repo.Activate(ctx, u.ID, plan, s.now())
	if err != nil {
		return nil, err
	}

	logger.Info("membership granted", "user_id", u.ID, "plan", plan.Name, "expiry", m.ExpiryDate.Format("2006-01-02"))
	metrics.RecordMembershipActivation(plan.Name, "admin")

	if s.notifier != nil {
		if err := s.notifier.SendMembershipGranted(ctx, u.Email, u.Name, plan.Name, m.ExpiryDate); err != nil {
			logger.WithError(err).Warn("failed to queue membership email", "user_id", u.ID)
		}
	}
	return m, nil
}

func (s *service) ListActive(ctx context.Context) ([]Membership, error) {
	return s.repo.ListActive(ctx, s.now())
}
