package gymclass

import "context"

type Repository interface {
	Create(ctx context.Context, c *Class) error
	GetByID(ctx context.Context, id int) (*Class, error)
	List(ctx context.Context, f Filter) ([]Class, error)
	Update(ctx context.Context, c *Class) error
	Delete(ctx context.Context, id int) error
	Participants(ctx context.Context, classIDs ...int) ([]Participant, error)
	IsApprovedTrainer(ctx context.Context, userID int) (bool, error)
}
