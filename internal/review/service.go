package review

import (
	"context"
	"strings"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/logger"
)

type Service interface {
	ForClass(ctx context.Context, classID int) (*ClassReviews, error)
	Create(ctx context.Context, actor auth.Actor, classID int, req Request) (*Review, error)
	Update(ctx context.Context, actor auth.Actor, id int, req Request) (*Review, error)
	Delete(ctx context.Context, actor auth.Actor, id int) error
	ListMine(ctx context.Context, userID int) ([]Review, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) ForClass(ctx context.Context, classID int) (*ClassReviews, error) {
	name, err := s.repo.ClassName(ctx, classID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return &ClassReviews{
		ClassID:       classID,
		ClassName:     name,
		Reviews:       reviews,
		TotalReviews:  len(reviews),
		AverageRating: Average(reviews),
	}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, classID int, req Request) (*Review, error) {
	name, err := s.repo.ClassName(ctx, classID)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.CanReview(ctx, actor.ID, classID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAttended
	}

	rv := &Review{
		ClassID:   classID,
		UserID:    actor.ID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		ClassName: name,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	logger.Info("review created", "review_id", rv.ID, "class_id", classID, "user_id", actor.ID, "rating", rv.Rating)
	return rv, nil
}

func (s *service) authored(ctx context.Context, actor auth.Actor, id int) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && rv.UserID != actor.ID {
		return nil, ErrNotAuthor
	}
	return rv, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id int, req Request) (*Review, error) {
	rv, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	rv.Rating = req.Rating
	rv.Comment = strings.TrimSpace(req.Comment)
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id int) error {
	if _, err := s.authored(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("review deleted", "review_id", id, "by", actor.ID)
	return nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Review, error) {
	return s.repo.ListByUser(ctx, userID)
}
