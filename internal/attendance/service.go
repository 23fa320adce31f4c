package attendance

import (
	"context"
	"errors"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/logger"
	"fitzone/internal/metrics"
)

var (
	ErrNotOwner         = errors.New("class belongs to another trainer")
	ErrWrongClass       = errors.New("booking does not belong to this class")
	ErrBookingNotActive = errors.New("attendance can only be marked for confirmed bookings")
)

type Service interface {
	Mark(ctx context.Context, actor auth.Actor, classID, bookingID int, attended bool) (*Attendance, error)
	List(ctx context.Context, actor auth.Actor, classID int) ([]Record, error)
	ListMine(ctx context.Context, userID int) ([]Record, error)
	SweepAbsentees(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// Mark records attendance for a booking. classID is checked when non-zero.
func (s *service) Mark(ctx context.Context, actor auth.Actor, classID, bookingID int, attended bool) (*Attendance, error) {
	t, err := s.repo.Target(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if classID != 0 && t.ClassID != classID {
		return nil, ErrWrongClass
	}
	if !actor.IsAdmin() && t.TrainerID != actor.ID {
		return nil, ErrNotOwner
	}
	if t.Status != "confirmed" {
		return nil, ErrBookingNotActive
	}

	a, err := s.repo.Upsert(ctx, bookingID, attended, s.now(), actor.ID)
	if err != nil {
		return nil, err
	}

	source := "trainer"
	if actor.IsAdmin() {
		source = "admin"
	}
	metrics.RecordAttendance(attended, source)
	logger.Info("attendance marked", "booking_id", bookingID, "attended", attended, "by", actor.ID)
	return a, nil
}

// List returns attendance records. Trainers only see their own classes.
func (s *service) List(ctx context.Context, actor auth.Actor, classID int) ([]Record, error) {
	trainerID := 0
	if !actor.IsAdmin() {
		trainerID = actor.ID
	}
	return s.repo.List(ctx, classID, trainerID)
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Record, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SweepAbsentees marks unattended bookings of finished classes as absent.
func (s *service) SweepAbsentees(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkAbsentees(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.RecordAbsentees(n)
	return n, nil
}
