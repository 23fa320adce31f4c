package booking

import (
	"context"
	"errors"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/email"
	"fitzone/internal/gymclass"
	"fitzone/internal/logger"
	"fitzone/internal/membership"
	"fitzone/internal/metrics"
)

var (
	ErrNotOwner      = errors.New("booking belongs to another member")
	ErrWrongClass    = errors.New("booking does not belong to this class")
	ErrCancelStarted = errors.New("bookings cannot be cancelled after the class starts")
)

type Service interface {
	Book(ctx context.Context, userID, classID int) (*Details, error)
	Cancel(ctx context.Context, actor auth.Actor, bookingID int) (*Details, error)
	RemoveFromClass(ctx context.Context, actor auth.Actor, classID, bookingID int, reason string) (*Details, error)
	Get(ctx context.Context, actor auth.Actor, id int) (*Details, error)
	ListMine(ctx context.Context, userID int) ([]Details, error)
	ListAll(ctx context.Context, status Status) ([]Details, error)
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

func outcome(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case errors.Is(err, membership.ErrMembershipRequired):
		return "membership_required"
	case errors.Is(err, membership.ErrClassLimitReached):
		return "class_limit_reached"
	case errors.Is(err, ErrClassFull):
		return "full"
	case errors.Is(err, ErrAlreadyBooked):
		return "duplicate"
	case errors.Is(err, ErrClassInPast), errors.Is(err, gymclass.ErrClassNotFound):
		return "invalid"
	default:
		return "error"
	}
}

func (s *service) Book(ctx context.Context, userID, classID int) (*Details, error) {
	b, err := s.repo.Book(ctx, userID, classID, s.now())
	metrics.RecordBooking(outcome(err))
	if err != nil {
		return nil, err
	}

	d, err := s.repo.GetDetails(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("class booked", "booking_id", d.ID, "user_id", userID, "class_id", classID)
	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, d.MemberEmail, d.MemberName, d.ClassName, d.TrainerName, d.Schedule); err != nil {
			logger.WithError(err).Warn("failed to queue booking confirmation", "booking_id", d.ID)
		}
	}
	return d, nil
}

func (s *service) cancel(ctx context.Context, d *Details, by, reason string) (*Details, error) {
	if d.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	b, err := s.repo.Cancel(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Booking = *b

	metrics.RecordBookingCancellation(by)
	logger.Info("booking cancelled", "booking_id", d.ID, "user_id", d.UserID, "by", by)

	if s.notifier != nil {
		if err := s.notifier.SendBookingCancellation(ctx, d.MemberEmail, d.MemberName, d.ClassName, d.Schedule, reason); err != nil {
			logger.WithError(err).Warn("failed to queue cancellation email", "booking_id", d.ID)
		}
	}
	return d, nil
}

// Cancel lets a member cancel their own booking before the class starts.
// Admins may cancel any booking.
func (s *service) Cancel(ctx context.Context, actor auth.Actor, bookingID int) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	by := "member"
	switch {
	case actor.IsAdmin():
		by = "admin"
	case d.UserID != actor.ID:
		return nil, ErrNotOwner
	case d.Status == StatusCancelled:
		return nil, ErrAlreadyCancelled
	case d.Started(s.now()):
		return nil, ErrCancelStarted
	}
	return s.cancel(ctx, d, by, "")
}

// RemoveFromClass is the trainer's roster action. The trainer must own the class.
func (s *service) RemoveFromClass(ctx context.Context, actor auth.Actor, classID, bookingID int, reason string) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.ClassID != classID {
		return nil, ErrWrongClass
	}
	if !actor.IsAdmin() && d.TrainerID != actor.ID {
		return nil, gymclass.ErrNotOwner
	}

	by := "trainer"
	if actor.IsAdmin() {
		by = "admin"
	}
	if reason == "" {
		reason = "Removed from the class by the trainer"
	}
	return s.cancel(ctx, d, by, reason)
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id int) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && d.UserID != actor.ID && d.TrainerID != actor.ID {
		return nil, ErrNotOwner
	}
	return d, nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Details, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context, status Status) ([]Details, error) {
	return s.repo.ListAll(ctx, status)
}
