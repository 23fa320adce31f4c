package gymclass

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/logger"
)

var (
	ErrNotOwner            = errors.New("class belongs to another trainer")
	ErrScheduleInPast      = errors.New("class schedule must be in the future")
	ErrCapacityBelowBooked = errors.New("capacity cannot be lower than confirmed bookings")
	ErrTrainerRequired     = errors.New("trainer_id must reference an approved trainer")
	ErrClassHasBookings    = errors.New("class has upcoming confirmed bookings")
)

type Service interface {
	List(ctx context.Context, f Filter) ([]Class, error)
	Get(ctx context.Context, id int) (*Class, error)
	Create(ctx context.Context, actor auth.Actor, req ClassRequest) (*Class, error)
	Update(ctx context.Context, actor auth.Actor, id int, req ClassRequest) (*Class, error)
	Delete(ctx context.Context, actor auth.Actor, id int) error
	Participants(ctx context.Context, actor auth.Actor, id int) ([]Participant, error)
	TrainerRoster(ctx context.Context, trainerID int) ([]Roster, error)
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

func (s *service) List(ctx context.Context, f Filter) ([]Class, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id int) (*Class, error) {
	return s.repo.GetByID(ctx, id)
}

// owned loads a class and checks that actor may manage it.
func (s *service) owned(ctx context.Context, actor auth.Actor, id int) (*Class, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && c.TrainerID != actor.ID {
		return nil, ErrNotOwner
	}
	return c, nil
}

// trainerFor decides who runs the class: trainers always themselves, admins
// whoever they name (or keep the current one on update).
func (s *service) trainerFor(ctx context.Context, actor auth.Actor, requested, current int) (int, error) {
	if !actor.IsAdmin() {
		return actor.ID, nil
	}
	if requested == 0 || requested == current {
		if current == 0 {
			return 0, ErrTrainerRequired
		}
		return current, nil
	}
	ok, err := s.repo.IsApprovedTrainer(ctx, requested)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrTrainerRequired
	}
	return requested, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req ClassRequest) (*Class, error) {
	req.applyDefaults()
	if !req.Schedule.After(s.now()) {
		return nil, ErrScheduleInPast
	}

	trainerID, err := s.trainerFor(ctx, actor, req.TrainerID, 0)
	if err != nil {
		return nil, err
	}

	c := &Class{
		TrainerID:       trainerID,
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		ClassType:       strings.ToLower(strings.TrimSpace(req.ClassType)),
		Difficulty:      req.Difficulty,
		Schedule:        req.Schedule,
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("class created", "class_id", c.ID, "trainer_id", c.TrainerID, "schedule", c.Schedule)
	return s.repo.GetByID(ctx, c.ID)
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id int, req ClassRequest) (*Class, error) {
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	req.applyDefaults()
	if !req.Schedule.Equal(c.Schedule) && !req.Schedule.After(s.now()) {
		return nil, ErrScheduleInPast
	}
	if req.Capacity < c.BookedCount {
		return nil, ErrCapacityBelowBooked
	}

	trainerID, err := s.trainerFor(ctx, actor, req.TrainerID, c.TrainerID)
	if err != nil {
		return nil, err
	}

	c.TrainerID = trainerID
	c.Name = strings.TrimSpace(req.Name)
	c.Description = strings.TrimSpace(req.Description)
	c.ClassType = strings.ToLower(strings.TrimSpace(req.ClassType))
	c.Difficulty = req.Difficulty
	c.Schedule = req.Schedule
	c.DurationMinutes = req.DurationMinutes
	c.Capacity = req.Capacity

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, c.ID)
}

// Delete removes a class. Upcoming classes with confirmed bookings must have
// those bookings cancelled first so member quotas are released.
func (s *service) Delete(ctx context.Context, actor auth.Actor, id int) error {
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if c.BookedCount > 0 && !c.IsPast(s.now()) {
		return ErrClassHasBookings
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("class deleted", "class_id", id, "by", actor.ID)
	return nil
}

func (s *service) Participants(ctx context.Context, actor auth.Actor, id int) ([]Participant, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.repo.Participants(ctx, id)
}

func (s *service) TrainerRoster(ctx context.Context, trainerID int) ([]Roster, error) {
	classes, err := s.repo.List(ctx, Filter{TrainerID: trainerID})
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(classes))
	for i, c := range classes {
		ids[i] = c.ID
	}
	participants, err := s.repo.Participants(ctx, ids...)
	if err != nil {
		return nil, err
	}

	byClass := make(map[int][]Participant, len(classes))
	for _, p := range participants {
		byClass[p.ClassID] = append(byClass[p.ClassID], p)
	}

	roster := make([]Roster, len(classes))
	for i, c := range classes {
		roster[i] = Roster{Class: c, Participants: byClass[c.ID]}
		if roster[i].Participants == nil {
			roster[i].Participants = []Participant{}
		}
	}
	return roster, nil
}
